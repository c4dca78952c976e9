package sources

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// AWSConfig holds configuration for AWS Secrets Manager
type AWSConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SecretName      string `yaml:"secret_name"`
	Endpoint        string `yaml:"endpoint"` // Optional: for LocalStack or custom endpoints
}

// Validate checks if the AWSConfig has all required fields set
func (a AWSConfig) Validate() error {
	if a.Region == "" {
		return errors.New("AWS region is required")
	}
	if a.SecretName == "" {
		return errors.New("AWS secret name is required")
	}
	// AccessKeyID and SecretAccessKey are optional - if not provided, will use IAM role or default credentials
	return nil
}

// CreateClient creates and configures an AWS Secrets Manager client from this config.
func (a AWSConfig) CreateClient() (*secretsmanager.Client, error) {
	ctx := context.Background()

	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(a.Region),
	}

	if a.Endpoint != "" {
		configOpts = append(configOpts, config.WithBaseEndpoint(a.Endpoint))
	}

	if a.AccessKeyID != "" && a.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				a.AccessKeyID,
				a.SecretAccessKey,
				"",
			),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}

	return secretsmanager.NewFromConfig(cfg), nil
}

// AWS resolves system properties from an AWS Secrets Manager secret.
// A JSON secret exposes one property per top-level string field; a plain
// text secret exposes its whole value under the secret's own name. The
// secret is fetched once on first lookup and cached.
type AWS struct {
	client     *secretsmanager.Client
	secretName string

	once sync.Once
	data map[string]string
	err  error
}

// NewAWS creates a new AWS Secrets Manager-backed source
//
// Parameters:
//   - client: Configured AWS Secrets Manager client
//   - secretName: The name of the secret in AWS Secrets Manager
func NewAWS(client *secretsmanager.Client, secretName string) *AWS {
	return &AWS{
		client:     client,
		secretName: secretName,
	}
}

// Lookup retrieves a property from the cached secret.
func (a *AWS) Lookup(key string) (string, bool) {
	a.once.Do(a.fetch)

	if a.err != nil {
		log.Warn().Err(a.err).Str("secret_name", a.secretName).Msg("AWS Secrets Manager source unavailable")
		return "", false
	}

	value, ok := a.data[key]
	if ok {
		log.Debug().Str("property", key).Str("secret_name", a.secretName).Msg("Retrieved property from AWS Secrets Manager")
	}
	return value, ok
}

// Name returns the source name
func (a *AWS) Name() string {
	return "AWS Secrets Manager"
}

func (a *AWS) fetch() {
	result, err := a.client.GetSecretValue(context.Background(), &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(a.secretName),
	})
	if err != nil {
		a.err = errors.Wrapf(err, "failed to read secret from AWS Secrets Manager: %q", a.secretName)
		return
	}

	if result.SecretString == nil {
		a.err = errors.Errorf("secret %q has no string value", a.secretName)
		return
	}

	a.data = parseSecretString(a.secretName, *result.SecretString)
}

// parseSecretString maps a secret payload to properties. JSON objects
// contribute their top-level string fields; anything else is a single
// property named after the secret itself.
func parseSecretString(secretName, secretString string) map[string]string {
	var secretData map[string]interface{}
	if err := json.Unmarshal([]byte(secretString), &secretData); err == nil {
		data := make(map[string]string, len(secretData))
		for k, raw := range secretData {
			if s, ok := raw.(string); ok {
				data[k] = s
			}
		}
		return data
	}

	return map[string]string{secretName: secretString}
}
