package client

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
)

// DescribeLimit is the page size requested from DescribeLogGroups.
const DescribeLimit int32 = 50

// LogsAPI is the subset of CloudWatch Logs API we use.
type LogsAPI interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// LogClient fetches log groups and log events one page at a time.
type LogClient struct {
	api LogsAPI
}

// NewLogClient wraps api.
func NewLogClient(api LogsAPI) *LogClient {
	return &LogClient{api: api}
}

// NewCloudWatchClient loads AWS configuration using the provided region and
// shared profile, and returns a CloudWatch Logs client. Both may be empty to
// use default resolution.
func NewCloudWatchClient(ctx context.Context, region, profile string) (*cloudwatchlogs.Client, error) {
	var cfgOpts []func(*config.LoadOptions) error
	if region != "" {
		cfgOpts = append(cfgOpts, config.WithRegion(region))
	}
	if profile != "" {
		cfgOpts = append(cfgOpts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return cloudwatchlogs.NewFromConfig(cfg), nil
}

// ListLogGroups returns one page of log groups whose names start with prefix.
// A limit of 0 uses DescribeLimit.
func (c *LogClient) ListLogGroups(ctx context.Context, prefix string, limit int32, cursor *string) ([]model.LogGroupRecord, *string, error) {
	if limit <= 0 {
		limit = DescribeLimit
	}
	in := &cloudwatchlogs.DescribeLogGroupsInput{
		Limit:     aws.Int32(limit),
		NextToken: cursor,
	}
	if prefix != "" {
		in.LogGroupNamePrefix = aws.String(prefix)
	}
	out, err := c.api.DescribeLogGroups(ctx, in)
	if err != nil {
		return nil, nil, fmt.Errorf("describe log groups: %w", err)
	}
	groups := make([]model.LogGroupRecord, 0, len(out.LogGroups))
	for _, g := range out.LogGroups {
		groups = append(groups, model.LogGroupRecord{
			Name: aws.ToString(g.LogGroupName),
			ARN:  aws.ToString(g.Arn),
		})
	}
	return groups, out.NextToken, nil
}

// FetchLogEvents returns one page of events of group inside rng that match
// query. An empty query matches everything.
func (c *LogClient) FetchLogEvents(ctx context.Context, group string, cursor *string, rng model.TimeRange, query string, limit int32) ([]model.LogRecord, *string, error) {
	in := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(group),
		NextToken:    cursor,
		StartTime:    rng.From,
		EndTime:      rng.To,
	}
	if limit > 0 {
		in.Limit = aws.Int32(limit)
	}
	if fp := FilterPattern(query); fp != "" {
		in.FilterPattern = aws.String(fp)
	}
	out, err := c.api.FilterLogEvents(ctx, in)
	if err != nil {
		return nil, nil, fmt.Errorf("filter log events in %s: %w", group, err)
	}
	records := make([]model.LogRecord, 0, len(out.Events))
	for _, e := range out.Events {
		records = append(records, model.LogRecord{
			ID:        aws.ToString(e.EventId),
			Message:   aws.ToString(e.Message),
			LogStream: aws.ToString(e.LogStreamName),
			Timestamp: e.Timestamp,
		})
	}
	return records, out.NextToken, nil
}

// FilterPattern turns a search query into a CloudWatch Logs filter pattern.
// The service treats special characters as token separators unless the term
// is quoted, so terms containing them are quoted to match the literal
// sequence. JSON, space-delimited, quoted and OR patterns pass through.
func FilterPattern(query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return ""
	}
	switch q[0] {
	case '{', '[', '"', '?':
		return q
	}
	terms := strings.Fields(q)
	for i, term := range terms {
		if needsQuote(term) {
			terms[i] = `"` + strings.ReplaceAll(term, `"`, `\"`) + `"`
		}
	}
	return strings.Join(terms, " ")
}

func needsQuote(term string) bool {
	body := term
	// "-term" excludes term
	if len(body) > 1 && body[0] == '-' {
		body = body[1:]
	}
	for _, r := range body {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return true
		}
	}
	return false
}
