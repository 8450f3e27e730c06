package queue

import (
	"context"
	"fmt"

	"github.com/klothoplatform/cdkbridge/pkg/collectionutil"
	"github.com/klothoplatform/cdkbridge/pkg/construct"
	"github.com/klothoplatform/cdkbridge/pkg/constructs"
	"github.com/klothoplatform/cdkbridge/pkg/synth"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const TypeName = "queue"

const (
	defaultWorkerTimeout = 6
	maxVisibilityTimeout = 43200
	// dlqRetention is the maximum SQS retention, 14 days.
	dlqRetention = 1209600
)

type (
	Config struct {
		// Worker is the function definition of the queue's consumer, as in the `functions` section.
		Worker map[string]any `mapstructure:"worker" validate:"required"`

		MaxRetries int `mapstructure:"maxRetries" validate:"gte=1,lte=1000"`
		BatchSize  int `mapstructure:"batchSize" validate:"gte=1,lte=10"`
		// MaxBatchingWindow is how many seconds to wait for a full batch.
		MaxBatchingWindow int  `mapstructure:"maxBatchingWindow" validate:"gte=0,lte=300"`
		Delay             int  `mapstructure:"delay" validate:"gte=0,lte=900"`
		Fifo              bool `mapstructure:"fifo"`
		// Alarm is an email address notified when messages land in the dead letter queue.
		Alarm string `mapstructure:"alarm" validate:"omitempty,email"`
		// Vpc places the worker, with every other function, in the stack's private subnets.
		Vpc bool `mapstructure:"vpc"`
	}

	workerConfig struct {
		Timeout int `mapstructure:"timeout"`
	}

	// Queue is an SQS queue consumed by a worker function, with a dead letter queue for the messages the
	// worker failed to process MaxRetries times.
	Queue struct {
		provider constructs.Provider
		id       string
		config   Config

		queue construct.ResourceId
		dlq   construct.ResourceId

		queueUrl *synth.Output
		dlqUrl   *synth.Output
	}
)

var Type = constructs.Definition{
	Name: TypeName,
	ConfigSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type":              map[string]any{"const": TypeName},
			"worker":            map[string]any{"type": "object"},
			"maxRetries":        map[string]any{"type": "integer", "minimum": 1, "maximum": 1000},
			"batchSize":         map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
			"maxBatchingWindow": map[string]any{"type": "integer", "minimum": 0, "maximum": 300},
			"delay":             map[string]any{"type": "integer", "minimum": 0, "maximum": 900},
			"fifo":              map[string]any{"type": "boolean"},
			"alarm":             map[string]any{"type": "string"},
			"vpc":               map[string]any{"type": "boolean"},
		},
		"required":             []any{"worker"},
		"additionalProperties": false,
	},
	New: func(p constructs.Provider, id string, configuration map[string]any) (constructs.Construct, error) {
		return New(p, id, configuration)
	},
}

func New(p constructs.Provider, id string, configuration map[string]any) (*Queue, error) {
	q := &Queue{
		provider: p,
		id:       id,
		config:   Config{MaxRetries: 3, BatchSize: 1},
		queue:    construct.ResourceId{Namespace: id, Name: "Queue"},
		dlq:      construct.ResourceId{Namespace: id, Name: "Dlq"},
	}
	if err := constructs.DecodeConfiguration(id, configuration, &q.config); err != nil {
		return nil, err
	}

	var worker workerConfig
	if err := mapstructure.WeakDecode(q.config.Worker, &worker); err != nil {
		return nil, errors.Wrapf(err, "invalid worker of queue '%s'", id)
	}
	if worker.Timeout == 0 {
		worker.Timeout = defaultWorkerTimeout
	}

	if err := q.addResources(worker); err != nil {
		return nil, errors.Wrapf(err, "could not create queue '%s'", id)
	}
	if q.config.Vpc {
		if _, err := p.EnableVpc(); err != nil {
			return nil, errors.Wrapf(err, "could not place the worker of queue '%s' in a vpc", id)
		}
	}
	q.addWorker()
	return q, nil
}

func (q *Queue) queueName(suffix string) string {
	name := q.provider.StackName() + "-" + q.id + suffix
	if q.config.Fifo {
		name += ".fifo"
	}
	return name
}

func (q *Queue) addResources(worker workerConfig) error {
	stack := q.provider.Stack()
	b := construct.NewGraphBatch(stack.Graph())

	dlq := &construct.Resource{
		ID:   q.dlq,
		Type: "AWS::SQS::Queue",
		Properties: construct.Properties{
			"QueueName":              q.queueName("-dlq"),
			"MessageRetentionPeriod": dlqRetention,
		},
	}
	// 6 times the worker timeout, capped at the SQS maximum
	visibility := min(worker.Timeout*6, maxVisibilityTimeout)
	queue := &construct.Resource{
		ID:   q.queue,
		Type: "AWS::SQS::Queue",
		Properties: construct.Properties{
			"QueueName":         q.queueName(""),
			"VisibilityTimeout": visibility,
			"RedrivePolicy": map[string]any{
				"maxReceiveCount":     q.config.MaxRetries,
				"deadLetterTargetArn": stack.GetAtt(q.dlq, "Arn"),
			},
		},
	}
	if q.config.Delay > 0 {
		queue.SetProperty("DelaySeconds", q.config.Delay)
	}
	if q.config.Fifo {
		dlq.SetProperty("FifoQueue", true)
		queue.SetProperty("FifoQueue", true)
		queue.SetProperty("ContentBasedDeduplication", true)
	}
	b.AddResources(dlq, queue)

	if q.config.Alarm != "" {
		topic := q.dlq.Child("AlarmTopic")
		b.AddResources(
			&construct.Resource{
				ID:   topic,
				Type: "AWS::SNS::Topic",
				Properties: construct.Properties{
					"Subscription": []any{map[string]any{"Endpoint": q.config.Alarm, "Protocol": "email"}},
				},
			},
			&construct.Resource{
				ID:   q.dlq.Child("Alarm"),
				Type: "AWS::CloudWatch::Alarm",
				Properties: construct.Properties{
					"AlarmName":          q.queueName("-dlq-alarm"),
					"AlarmDescription":   fmt.Sprintf("Alert if %s has failed messages", q.queueName("-dlq")),
					"Namespace":          "AWS/SQS",
					"MetricName":         "ApproximateNumberOfMessagesVisible",
					"Dimensions":         []any{map[string]any{"Name": "QueueName", "Value": stack.GetAtt(q.dlq, "QueueName")}},
					"Statistic":          "Sum",
					"Period":             60,
					"EvaluationPeriods":  1,
					"Threshold":          0,
					"ComparisonOperator": "GreaterThanThreshold",
					"AlarmActions":       []any{stack.Ref(topic)},
				},
			},
		)
	}
	if b.Err != nil {
		return b.Err
	}

	q.queueUrl = &synth.Output{
		ID:          construct.ResourceId{Namespace: q.id, Name: "QueueUrl"},
		Value:       stack.Ref(q.queue),
		Description: "URL of the queue",
	}
	q.dlqUrl = &synth.Output{
		ID:          construct.ResourceId{Namespace: q.id, Name: "DlqUrl"},
		Value:       stack.Ref(q.dlq),
		Description: "URL of the dead letter queue",
	}
	if err := stack.AddOutput(q.queueUrl); err != nil {
		return err
	}
	return stack.AddOutput(q.dlqUrl)
}

// addWorker declares the worker in the host's `functions`, subscribed to the queue.
func (q *Queue) addWorker() {
	stack := q.provider.Stack()
	worker := collectionutil.DeepCopy(q.config.Worker).(map[string]any)

	sqsEvent := map[string]any{
		"arn":                  q.provider.GetCloudFormationReference(stack.GetAtt(q.queue, "Arn")),
		"batchSize":            q.config.BatchSize,
		"functionResponseType": "ReportBatchItemFailures",
	}
	if q.config.MaxBatchingWindow > 0 {
		sqsEvent["maximumBatchingWindow"] = q.config.MaxBatchingWindow
	}
	events, _ := worker["events"].([]any)
	worker["events"] = append(events, map[string]any{"sqs": sqsEvent})

	q.provider.AddFunction(q.workerName(), worker)
}

func (q *Queue) workerName() string {
	return q.id + "Worker"
}

func (q *Queue) Outputs() map[string]constructs.OutputFunc {
	return map[string]constructs.OutputFunc{
		"queueUrl": func(ctx context.Context) (string, bool, error) {
			return q.provider.GetStackOutput(ctx, q.queueUrl)
		},
		"dlqUrl": func(ctx context.Context) (string, bool, error) {
			return q.provider.GetStackOutput(ctx, q.dlqUrl)
		},
	}
}

func (q *Queue) References() map[string]any {
	stack := q.provider.Stack()
	return map[string]any{
		"queueUrl": q.provider.GetCloudFormationReference(stack.Ref(q.queue)),
		"queueArn": q.provider.GetCloudFormationReference(stack.GetAtt(q.queue, "Arn")),
		"dlqUrl":   q.provider.GetCloudFormationReference(stack.Ref(q.dlq)),
		// the worker's function is rendered by the host, outside of the stack's graph
		"workerArn": map[string]any{
			"Fn::GetAtt": []any{q.provider.Naming().GetLambdaLogicalId(q.workerName()), "Arn"},
		},
	}
}
