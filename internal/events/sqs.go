package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends one message per event to a single queue.
type SQSPublisher struct {
	client   sqsAPI
	queueURL string
}

// NewSQSPublisher loads the default AWS configuration (environment, shared
// files, AWS_ENDPOINT_URL for local stacks) and resolves queueName to a URL.
func NewSQSPublisher(ctx context.Context, queueName string) (*SQSPublisher, error) {
	if queueName == "" {
		return nil, errors.New("events: sqs needs a queue name")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("events: load aws config: %w", err)
	}
	client := sqs.New(sqs.Options{
		Region:       cfg.Region,
		Credentials:  cfg.Credentials,
		HTTPClient:   cfg.HTTPClient,
		BaseEndpoint: cfg.BaseEndpoint,
	})
	out, err := client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(queueName)})
	if err != nil {
		return nil, fmt.Errorf("events: resolve queue %q: %w", queueName, err)
	}
	return &SQSPublisher{client: client, queueURL: aws.ToString(out.QueueUrl)}, nil
}

func (p *SQSPublisher) Publish(ctx context.Context, ev SubmissionCreated) error {
	body, err := encode(ev)
	if err != nil {
		return err
	}
	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"type": {DataType: aws.String("String"), StringValue: aws.String(TypeSubmissionCreated)},
		},
	})
	return err
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (p *SQSPublisher) Close() error { return nil }
