package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/httputil/config"
	"github.com/wesleyorama2/httputil/http"
)

// requestOptions holds the per-command request flags.
type requestOptions struct {
	headers []string
	data    string
	json    string
	cookie  string
	timeout string
	async   bool
	repeat  int
}

func newRequestCmd(method http.Method, allowBody bool) *cobra.Command {
	opts := &requestOptions{}
	name := strings.ToLower(method.String())

	cmd := &cobra.Command{
		Use:   name + " URL",
		Short: fmt.Sprintf("Make a %s request to the specified URL", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.headers, "header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	flags.StringVarP(&opts.cookie, "cookie", "c", "", "Cookie header value")
	flags.StringVarP(&opts.timeout, "timeout", "t", "", "Request timeout (e.g. 5s, 500ms, \"2 seconds\")")
	flags.BoolVar(&opts.async, "async", false, "Dispatch all repetitions concurrently")
	flags.IntVar(&opts.repeat, "repeat", 1, "Number of times to send the request")
	if allowBody {
		flags.StringVarP(&opts.data, "data", "d", "", "Data to send in the request body (@file reads a file)")
		flags.StringVarP(&opts.json, "json", "j", "", "JSON data to send in the request body (@file reads a file)")
		cmd.MarkFlagsMutuallyExclusive("data", "json")
	}

	return cmd
}

type result struct {
	resp *http.Response
	err  error
}

func runRequest(cmd *cobra.Command, method http.Method, rawURL string, opts *requestOptions) error {
	if opts.repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", opts.repeat)
	}

	global, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}

	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}

	stats := http.NewStats()
	clientOptions := append(cfg.ClientOptions(), http.WithStats(stats))
	if logger := global.logger(cmd.ErrOrStderr()); logger != nil {
		clientOptions = append(clientOptions, http.WithLogger(logger))
	}
	client := http.NewClient(clientOptions...)
	defer client.CloseIdleConnections()

	target := normalizeURL(rawURL)
	requests := make([]*http.Request, 0, opts.repeat)
	for i := 0; i < opts.repeat; i++ {
		req, err := buildRequest(client, cfg, method, target, opts)
		if err != nil {
			return err
		}
		requests = append(requests, req)
	}

	formatter := global.formatter()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	fmt.Fprint(out, formatter.FormatRequest(requests[0]))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	failed := 0
	for _, r := range dispatch(ctx, client, requests, opts.async) {
		if r.err != nil {
			failed++
			fmt.Fprint(errOut, formatter.FormatError(r.err))
			continue
		}
		fmt.Fprint(out, formatter.FormatResponse(r.resp))
	}

	if opts.repeat > 1 {
		fmt.Fprint(out, formatter.FormatStats(stats.Snapshot()))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(requests))
	}
	return nil
}

// dispatch sends the requests and returns results in request order.
func dispatch(ctx context.Context, client *http.Client, requests []*http.Request, async bool) []result {
	results := make([]result, len(requests))

	if !async {
		for i, req := range requests {
			results[i].resp, results[i].err = client.Send(ctx, req)
		}
		return results
	}

	futures := make([]*http.Future, len(requests))
	for i, req := range requests {
		futures[i] = client.SendAsync(ctx, req)
	}
	for i, f := range futures {
		results[i].resp, results[i].err = f.Wait()
	}
	return results
}

func buildRequest(client *http.Client, cfg *config.Config, method http.Method, target string, opts *requestOptions) (*http.Request, error) {
	b := client.NewBuilder(method.String(), target)

	// Explicit -H values set after this override the default content type.
	if opts.json != "" {
		b.WithContentType(http.ContentTypeJSON)
	}

	for _, header := range opts.headers {
		name, value, ok := strings.Cut(header, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q: expected 'Name: value'", header)
		}
		b.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if opts.cookie != "" {
		b.WithCookie(opts.cookie)
	}

	switch {
	case opts.json != "":
		body, err := readBody(opts.json)
		if err != nil {
			return nil, err
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("--json value is not valid JSON")
		}
		b.WithBody(body)
	case opts.data != "":
		body, err := readBody(opts.data)
		if err != nil {
			return nil, err
		}
		b.WithBody(body)
	}

	if opts.timeout != "" {
		timeout, err := config.ParseDurationString(opts.timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", opts.timeout, err)
		}
		b.WithTimeout(timeout)
	}

	return cfg.Apply(b).Build()
}

// readBody returns value, or the contents of the named file for "@path".
func readBody(value string) ([]byte, error) {
	path, ok := strings.CutPrefix(value, "@")
	if !ok {
		return []byte(value), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading body file: %w", err)
	}
	return data, nil
}

// normalizeURL adds an http scheme to bare host[:port]/path arguments.
func normalizeURL(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	return "http://" + raw
}
