package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSPublisher publishes alerts to an AWS SNS topic, the transport the
// monitor was originally deployed with.
type SNSPublisher struct {
	client   *sns.Client
	topicARN string
}

// NewSNSPublisher returns nil when no topic ARN is configured, which
// disables SNS delivery entirely.
func NewSNSPublisher(region, topicARN, accessKeyID, secretAccessKey string) *SNSPublisher {
	if topicARN == "" {
		return nil
	}

	opts := sns.Options{Region: region}
	if accessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")
	}

	return &SNSPublisher{
		client:   sns.New(opts),
		topicARN: topicARN,
	}
}

func (p *SNSPublisher) Publish(ctx context.Context, alert Alert) error {
	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(alert.Subject()),
		Message:  aws.String(alert.Message()),
	})
	if err != nil {
		return fmt.Errorf("sns publish for %s: %w", alert.Hostname, err)
	}
	return nil
}
