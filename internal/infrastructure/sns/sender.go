package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// EventProcessChanged is the event type attribute carried by every change message.
const EventProcessChanged = "ProcessChanged"

// ProcessChanged is published once per detected change of a case number,
// regardless of how many users follow it.
type ProcessChanged struct {
	CaseNumber       string    `json:"numero_radicacion"`
	ProcessID        *string   `json:"process_id,omitempty"`
	LastActivityDate *string   `json:"last_activity_date,omitempty"`
	Status           *string   `json:"status,omitempty"`
	Message          string    `json:"message"`
	Followers        int       `json:"followers"`
	DetectedAt       time.Time `json:"detected_at"`
}

// PublishAPI is the subset of the SNS client used by the publisher.
type PublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// ChangePublisher fans change events out to an SNS topic.
type ChangePublisher struct {
	client   PublishAPI
	topicARN string
}

// NewClient creates an SNS client, honouring a LocalStack endpoint when set.
func NewClient(awsCfg aws.Config, endpoint string) *sns.Client {
	return sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func NewChangePublisher(client PublishAPI, topicARN string) *ChangePublisher {
	return &ChangePublisher{client: client, topicARN: topicARN}
}

func (p *ChangePublisher) PublishChange(ctx context.Context, ev ProcessChanged) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String(EventProcessChanged),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(EventProcessChanged)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
