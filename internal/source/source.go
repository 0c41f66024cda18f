// Package source loads the desired label list from wherever the user keeps
// it: a local file, stdin, an S3 object or a file in a GitHub repository.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"gh-labeler/internal/auth"
	"gh-labeler/pkg/config"
	"gh-labeler/pkg/github"
	"gh-labeler/pkg/labels"
	"gh-labeler/pkg/logging"
)

// StdinPath selects standard input as the configuration source
const StdinPath = "-"

const s3Scheme = "s3://"

// maxConfigSize bounds how much is read from stdin or S3
const maxConfigSize = 1 << 20

// ContentFetcher reads a file from a GitHub repository
type ContentFetcher interface {
	GetFileContent(ctx context.Context, repo labels.Repository, path string) ([]byte, error)
}

// ObjectGetter is the part of the S3 client the loader uses
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Request names the configuration to load. At most one of RemoteConfig,
// Template and ConfigPath is used, in that order of precedence. With none
// set, the convention files under WorkDir are searched.
type Request struct {
	// RemoteConfig is "owner/repo:path"
	RemoteConfig string
	// Template is "owner/repo"; its convention files are probed
	Template string
	// ConfigPath is a local path, "-" for stdin or "s3://bucket/key"
	ConfigPath string
	WorkDir    string
}

// Error wraps a failure to load or parse a configuration with its origin
type Error struct {
	Origin string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to load labels from %s: %v", e.Origin, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Loader resolves a Request to a validated desired label list
type Loader struct {
	github        ContentFetcher
	objects       ObjectGetter
	awsConfig     config.AWSConfig
	stdin         io.Reader
	stdinTerminal func() bool
	logger        zerolog.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithContentFetcher enables remote-config and template sources
func WithContentFetcher(fetcher ContentFetcher) Option {
	return func(l *Loader) {
		l.github = fetcher
	}
}

// WithObjectGetter sets the S3 client. Without one, a client is built from
// the AWS configuration when an s3:// path is loaded.
func WithObjectGetter(getter ObjectGetter) Option {
	return func(l *Loader) {
		l.objects = getter
	}
}

// WithAWSConfig sets the region and profile used to build an S3 client
func WithAWSConfig(cfg config.AWSConfig) Option {
	return func(l *Loader) {
		l.awsConfig = cfg
	}
}

// WithStdin replaces os.Stdin
func WithStdin(r io.Reader, isTerminal bool) Option {
	return func(l *Loader) {
		l.stdin = r
		l.stdinTerminal = func() bool { return isTerminal }
	}
}

// NewLoader creates a loader reading stdin from os.Stdin
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		stdin: os.Stdin,
		stdinTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		logger: logging.GetLogger("source"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the desired labels named by req and a description of where
// they came from. The list has passed ValidateLabels.
func (l *Loader) Load(ctx context.Context, req Request) ([]labels.DesiredLabel, string, error) {
	var (
		desired []labels.DesiredLabel
		origin  string
		err     error
	)

	switch {
	case req.RemoteConfig != "":
		desired, origin, err = l.loadRemote(ctx, req.RemoteConfig)
	case req.Template != "":
		desired, origin, err = l.loadTemplate(ctx, req.Template)
	case req.ConfigPath == StdinPath:
		origin = "stdin"
		desired, err = l.loadStdin()
	case strings.HasPrefix(req.ConfigPath, s3Scheme):
		origin = req.ConfigPath
		desired, err = l.loadS3(ctx, req.ConfigPath)
	case req.ConfigPath != "":
		origin = req.ConfigPath
		desired, err = labels.LoadLabelsFromFile(req.ConfigPath)
	default:
		desired, origin, err = l.loadConvention(req.WorkDir)
	}

	if err != nil {
		var notFound *labels.ConfigNotFoundError
		if errors.As(err, &notFound) || origin == "" {
			return nil, "", err
		}
		return nil, "", &Error{Origin: origin, Err: err}
	}

	l.logger.Debug().
		Str("origin", origin).
		Int("labels", len(desired)).
		Msg("Loaded label configuration")

	return desired, origin, nil
}

func (l *Loader) loadRemote(ctx context.Context, spec string) ([]labels.DesiredLabel, string, error) {
	repo, filePath, err := ParseRemoteConfig(spec)
	if err != nil {
		return nil, "", err
	}
	if l.github == nil {
		return nil, "", fmt.Errorf("remote configuration %s requires a GitHub client", spec)
	}

	origin := fmt.Sprintf("%s:%s", repo, filePath)
	data, err := l.github.GetFileContent(ctx, repo, filePath)
	if err != nil {
		return nil, origin, err
	}

	format, err := labels.FormatFromPath(filePath)
	if err != nil {
		format = labels.DetectFormat(data)
	}

	desired, err := labels.ParseLabels(data, format)
	return desired, origin, err
}

func (l *Loader) loadTemplate(ctx context.Context, spec string) ([]labels.DesiredLabel, string, error) {
	repo, err := labels.ParseRepository(spec)
	if err != nil {
		return nil, "", err
	}
	if l.github == nil {
		return nil, "", fmt.Errorf("template %s requires a GitHub client", spec)
	}

	searched := make([]string, 0, len(labels.ConventionFiles))
	for _, name := range labels.ConventionFiles {
		origin := fmt.Sprintf("%s:%s", repo, name)

		data, err := l.github.GetFileContent(ctx, repo, name)
		if github.IsErrorType(err, github.ErrorTypeNotFound) {
			searched = append(searched, origin)
			continue
		}
		if err != nil {
			return nil, origin, err
		}

		format, _ := labels.FormatFromPath(name)
		desired, err := labels.ParseLabels(data, format)
		return desired, origin, err
	}

	return nil, "", &labels.ConfigNotFoundError{Searched: searched}
}

func (l *Loader) loadStdin() ([]labels.DesiredLabel, error) {
	if l.stdinTerminal() {
		return nil, fmt.Errorf("refusing to read labels from an interactive terminal; pipe a file into stdin")
	}

	data, err := readLimited(l.stdin)
	if err != nil {
		return nil, err
	}
	return labels.ParseLabels(data, labels.DetectFormat(data))
}

func (l *Loader) loadS3(ctx context.Context, uri string) ([]labels.DesiredLabel, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	client := l.objects
	if client == nil {
		awsCfg, err := auth.LoadAWSConfig(ctx, l.awsConfig)
		if err != nil {
			return nil, err
		}
		client = s3.NewFromConfig(awsCfg)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	data, err := readLimited(out.Body)
	if err != nil {
		return nil, err
	}

	format, err := labels.FormatFromPath(key)
	if err != nil {
		format = labels.DetectFormat(data)
	}
	return labels.ParseLabels(data, format)
}

func (l *Loader) loadConvention(dir string) ([]labels.DesiredLabel, string, error) {
	if dir == "" {
		dir = "."
	}

	found, err := labels.FindConventionConfig(dir)
	if err != nil {
		return nil, "", err
	}

	desired, err := labels.LoadLabelsFromFile(found)
	return desired, found, err
}

// ParseRemoteConfig splits "owner/repo:path"
func ParseRemoteConfig(spec string) (labels.Repository, string, error) {
	repoPart, filePath, ok := strings.Cut(spec, ":")
	if !ok || strings.TrimSpace(filePath) == "" {
		return labels.Repository{}, "", fmt.Errorf("%w: remote config must look like owner/repo:path, got %q", labels.ErrInvalidRepository, spec)
	}

	repo, err := labels.ParseRepository(repoPart)
	if err != nil {
		return labels.Repository{}, "", err
	}

	return repo, strings.TrimPrefix(path.Clean("/"+filePath), "/"), nil
}

// ParseS3URI splits "s3://bucket/key"
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an S3 URI: %q", uri)
	}

	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("S3 URI must look like s3://bucket/key, got %q", uri)
	}
	return bucket, key, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("configuration exceeds %d bytes", maxConfigSize)
	}
	return data, nil
}
