package s3infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/judicial-monitor/internal/domain"
	"github.com/judicial-monitor/internal/pkg/id"
)

const archivePrefix = "cases/"

// ObjectAPI is the subset of the S3 client used by the archive.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Presigner is the subset of the S3 presign client used by the archive.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// CaseArchive keeps a JSON copy of every case record that produced a change,
// under cases/<case_number>/<ulid>.json.
type CaseArchive struct {
	client    ObjectAPI
	presigner Presigner
	bucket    string
}

// NewClient creates an S3 client. When endpoint is set (LocalStack), it
// overrides the endpoint and enables path-style addressing.
func NewClient(awsCfg aws.Config, endpoint string) *s3.Client {
	clientOpts := []func(*s3.Options){}
	if endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsCfg, clientOpts...)
}

// NewCaseArchive wires an archive to a real S3 client.
func NewCaseArchive(client *s3.Client, bucket string) *CaseArchive {
	return &CaseArchive{client: client, presigner: s3.NewPresignClient(client), bucket: bucket}
}

// NewCaseArchiveWith is NewCaseArchive with explicit collaborators.
func NewCaseArchiveWith(client ObjectAPI, presigner Presigner, bucket string) *CaseArchive {
	return &CaseArchive{client: client, presigner: presigner, bucket: bucket}
}

// Put stores data as a new archive object and returns its key.
func (a *CaseArchive) Put(ctx context.Context, data *domain.CaseData) (string, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal case data: %w", err)
	}
	key := caseKeyPrefix(data.CaseNumber) + id.New() + ".json"
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return key, nil
}

// LatestKey returns the most recent archive key for caseNumber, or
// domain.ErrNotFound when nothing was archived yet.
func (a *CaseArchive) LatestKey(ctx context.Context, caseNumber string) (string, error) {
	var (
		keys  []string
		token *string
	)
	for {
		out, err := a.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(a.bucket),
			Prefix:            aws.String(caseKeyPrefix(caseNumber)),
			ContinuationToken: token,
		})
		if err != nil {
			return "", fmt.Errorf("s3 list objects: %w", err)
		}
		for _, obj := range out.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("no archive for case %s: %w", caseNumber, domain.ErrNotFound)
	}
	// ULID names sort by creation time.
	sort.Strings(keys)
	return keys[len(keys)-1], nil
}

// PresignedURL generates a time-limited presigned GET URL for the given key.
func (a *CaseArchive) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get object: %w", err)
	}
	return req.URL, nil
}

func caseKeyPrefix(caseNumber string) string {
	return archivePrefix + strings.TrimSpace(caseNumber) + "/"
}
