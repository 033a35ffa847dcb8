package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/asecurityteam/taskfull/pkg/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const (
	// TypeDynamoDB selects the DynamoDB store.
	TypeDynamoDB = "DYNAMODB"
	// TypeMemory selects the in-process store. Records do not survive
	// a restart and are not shared between processes.
	TypeMemory = "MEMORY"
)

// DynamoDBConfig contains the settings for the DynamoDB store.
type DynamoDBConfig struct {
	TableName string `description:"Name of the DynamoDB table holding tasks."`
	Region    string `description:"AWS region of the table. The default AWS configuration chain is used when empty."`
	Endpoint  string `description:"Optional endpoint override, such as the URL of a DynamoDB Local instance."`
}

// Name of the configuration root.
func (*DynamoDBConfig) Name() string {
	return "dynamodb"
}

// DynamoDBComponent implements the settings.Component interface for the
// DynamoDB store.
type DynamoDBComponent struct {
	// LoadConfig resolves the AWS configuration. The default value is
	// config.LoadDefaultConfig.
	LoadConfig func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error)
}

// Settings returns the default configuration.
func (*DynamoDBComponent) Settings() *DynamoDBConfig {
	return &DynamoDBConfig{}
}

// New constructs a DynamoDB store bound to the configured table.
func (c *DynamoDBComponent) New(ctx context.Context, conf *DynamoDBConfig) (*DynamoDB, error) {
	if conf.TableName == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}
	load := c.LoadConfig
	if load == nil {
		load = config.LoadDefaultConfig
	}
	var opts []func(*config.LoadOptions) error
	if conf.Region != "" {
		opts = append(opts, config.WithRegion(conf.Region))
	}
	awsConf, err := load(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws configuration: %w", err)
	}
	client := dynamodb.NewFromConfig(awsConf, func(o *dynamodb.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
	})
	return &DynamoDB{Client: client, TableName: conf.TableName}, nil
}

// Config selects and configures a store implementation.
type Config struct {
	Type     string `description:"Store implementation to use. One of DYNAMODB or MEMORY."`
	DynamoDB *DynamoDBConfig
}

// Name of the configuration root.
func (*Config) Name() string {
	return "store"
}

// Component implements the settings.Component interface for any
// domain.TaskStore.
type Component struct {
	DynamoDB *DynamoDBComponent
}

// NewComponent populates the default values.
func NewComponent() *Component {
	return &Component{
		DynamoDB: &DynamoDBComponent{},
	}
}

// Settings returns the default configuration.
func (c *Component) Settings() *Config {
	return &Config{
		Type:     TypeDynamoDB,
		DynamoDB: c.DynamoDB.Settings(),
	}
}

// New constructs the selected store.
func (c *Component) New(ctx context.Context, conf *Config) (domain.TaskStore, error) {
	switch {
	case strings.EqualFold(conf.Type, TypeDynamoDB):
		s, err := c.DynamoDB.New(ctx, conf.DynamoDB)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.EqualFold(conf.Type, TypeMemory):
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store type %s", conf.Type)
	}
}
