package sns

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/go-sms-relay/internal/config"
	"github.com/go-sms-relay/internal/domain"
)

// Result is the outcome of a carrier call that returned normally.
// SID is the provider-assigned message id; it may be nil on an
// otherwise-successful response, which is tolerated.
type Result struct {
	Status string
	SID    *string
}

// Gateway submits one SMS to the carrier, synchronously. Exactly one
// attempt per call; retries are the caller's (non-)concern.
type Gateway interface {
	Send(ctx context.Context, to, body string) (*Result, error)
}

type sender struct {
	client          *sns.Client
	senderNumber    string
	credsConfigured bool
}

// NewSender builds the SNS-backed gateway. Missing credentials or sender
// number do not fail construction; they surface per-call as
// domain.ErrConfiguration so each send reports the deployment fault.
func NewSender(cfg *config.Config) (Gateway, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.SNSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return &sender{
		client:          sns.NewFromConfig(awsCfg, clientOpts...),
		senderNumber:    cfg.SMSSenderNumber,
		credsConfigured: hasCredentials(cfg),
	}, nil
}

// hasCredentials reports whether any credential source is available:
// static keys, a shared profile, or a web identity (IRSA/instance role).
func hasCredentials(cfg *config.Config) bool {
	return cfg.AWSAccessKeyID != "" ||
		os.Getenv("AWS_PROFILE") != "" ||
		os.Getenv("AWS_WEB_IDENTITY_TOKEN_FILE") != "" ||
		os.Getenv("AWS_CONTAINER_CREDENTIALS_RELATIVE_URI") != ""
}

func (s *sender) Send(ctx context.Context, to, body string) (*Result, error) {
	// Deployment faults are reported before any network call is made.
	if !s.credsConfigured {
		return nil, fmt.Errorf("sms credentials %w", domain.ErrConfiguration)
	}
	if s.senderNumber == "" {
		return nil, fmt.Errorf("sender phone number %w", domain.ErrConfiguration)
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.MM.SMS.OriginationNumber": {
				DataType:    aws.String("String"),
				StringValue: aws.String(s.senderNumber),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sns publish: %w", err)
	}

	// SNS acknowledges acceptance, not delivery: an accepted publish is
	// "queued" with the SNS message id as the provider sid.
	return &Result{Status: domain.StatusQueued, SID: out.MessageId}, nil
}
