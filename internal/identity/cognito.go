package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

// CognitoProvider implements Provider against an Amazon Cognito user pool.
type CognitoProvider struct {
	client   *cognitoidentityprovider.Client
	poolID   string
	clientID string
}

func NewCognitoProvider(ctx context.Context, poolID, clientID string) (*CognitoProvider, error) {
	awscfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}
	return &CognitoProvider{
		client:   cognitoidentityprovider.NewFromConfig(awscfg),
		poolID:   poolID,
		clientID: clientID,
	}, nil
}

func (p *CognitoProvider) LookupUser(ctx context.Context, username string) (*UserRecord, error) {
	out, err := p.client.AdminGetUser(ctx, &cognitoidentityprovider.AdminGetUserInput{
		UserPoolId: aws.String(p.poolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &UserRecord{
		Username: aws.ToString(out.Username),
		Status:   string(out.UserStatus),
	}, nil
}

func (p *CognitoProvider) CreateUser(ctx context.Context, username string, attrs map[string]string, delivery DeliveryMode) (*UserRecord, error) {
	userAttrs := make([]types.AttributeType, 0, len(attrs))
	for name, value := range attrs {
		userAttrs = append(userAttrs, types.AttributeType{
			Name:  aws.String(name),
			Value: aws.String(value),
		})
	}

	out, err := p.client.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:     aws.String(p.poolID),
		Username:       aws.String(username),
		UserAttributes: userAttrs,
		MessageAction:  messageAction(delivery),
	})
	if err != nil {
		return nil, translateError(err)
	}

	record := &UserRecord{Username: username}
	if out.User != nil {
		record.Username = aws.ToString(out.User.Username)
		record.Status = string(out.User.UserStatus)
	}
	return record, nil
}

func (p *CognitoProvider) SetPermanentPassword(ctx context.Context, username, password string) error {
	_, err := p.client.AdminSetUserPassword(ctx, &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(p.poolID),
		Username:   aws.String(username),
		Password:   aws.String(password),
		Permanent:  true,
	})
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (p *CognitoProvider) Authenticate(ctx context.Context, username, password string) (*Tokens, error) {
	out, err := p.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		ClientId: aws.String(p.clientID),
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, translateError(err)
	}
	if out.AuthenticationResult == nil {
		return nil, fmt.Errorf("authentication produced no result")
	}
	return &Tokens{
		AccessToken:  aws.ToString(out.AuthenticationResult.AccessToken),
		IDToken:      aws.ToString(out.AuthenticationResult.IdToken),
		RefreshToken: aws.ToString(out.AuthenticationResult.RefreshToken),
	}, nil
}

func messageAction(delivery DeliveryMode) types.MessageActionType {
	if delivery == DeliveryResend {
		return types.MessageActionTypeResend
	}
	return types.MessageActionTypeSuppress
}

// translateError maps Cognito's typed exceptions onto the sentinel taxonomy.
// Unclassified failures keep only the service's message so callers can relay
// it without SDK operation noise.
func translateError(err error) error {
	var notFound *types.UserNotFoundException
	if errors.As(err, &notFound) {
		return ErrUserNotFound
	}
	var notAuthorized *types.NotAuthorizedException
	if errors.As(err, &notAuthorized) {
		return ErrNotAuthorized
	}
	var notConfirmed *types.UserNotConfirmedException
	if errors.As(err, &notConfirmed) {
		return ErrUserNotConfirmed
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.ErrorMessage())
	}
	return err
}
