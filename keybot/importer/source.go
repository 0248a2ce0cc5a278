package importer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Source yields the key codes currently waiting to be imported. A source that
// does not exist yet yields no codes and no error.
type Source interface {
	Name() string
	Read(ctx context.Context) ([]string, error)
}

// FileSource reads one key per line from a local file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

func (s *FileSource) Read(_ context.Context) ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open keys file: %w", err)
	}
	defer f.Close()

	return ParseKeys(f)
}

// ObjectGetter is the part of the S3 client the Spaces source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// SpacesSource reads keys from one object in a DigitalOcean Spaces bucket.
type SpacesSource struct {
	client ObjectGetter
	bucket string
	key    string
}

func NewSpacesSource(ctx context.Context, spacesKey, spacesSecret, region, bucket, key string) (*SpacesSource, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	return NewSpacesSourceWithClient(s3.NewFromConfig(cfg), bucket, key), nil
}

func NewSpacesSourceWithClient(client ObjectGetter, bucket, key string) *SpacesSource {
	return &SpacesSource{
		client: client,
		bucket: bucket,
		key:    strings.TrimPrefix(key, "/"),
	}
}

func (s *SpacesSource) Name() string {
	return fmt.Sprintf("spaces:%s/%s", s.bucket, s.key)
}

func (s *SpacesSource) Read(ctx context.Context) ([]string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", s.Name(), err)
	}
	defer out.Body.Close()

	return ParseKeys(out.Body)
}

// ParseKeys returns the non-blank lines of r, trimmed. Lines starting with #
// are comments.
func ParseKeys(r io.Reader) ([]string, error) {
	var codes []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		codes = append(codes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keys: %w", err)
	}
	return codes, nil
}
