package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNS subjects are limited to 100 characters.
const maxSubjectLen = 100

// Publisher is the subset of the SNS client used here.
type Publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNS publishes alerts to a topic.
type SNS struct {
	TopicARN string
	Client   Publisher
}

// NewSNS builds a client from the default AWS credential chain. It returns
// nil, nil when topicARN is empty.
func NewSNS(ctx context.Context, topicARN, region string) (*SNS, error) {
	if topicARN == "" {
		return nil, nil
	}
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNS{TopicARN: topicARN, Client: sns.NewFromConfig(cfg)}, nil
}

func (s *SNS) Send(ctx context.Context, title, text string) error {
	if s == nil || s.TopicARN == "" || s.Client == nil {
		return errors.New("sns disabled")
	}
	_, err := s.Client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.TopicARN),
		Subject:  aws.String(subject(title)),
		Message:  aws.String(text),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

func subject(title string) string {
	r := []rune(title)
	if len(r) > maxSubjectLen {
		r = r[:maxSubjectLen]
	}
	return string(r)
}
