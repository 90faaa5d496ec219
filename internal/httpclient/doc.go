// Package httpclient provides HTTP request construction and transport setup
// for the pulsefire load generator.
//
// Use [NewRequestBuilder] to create a reusable builder from configuration:
//
//	builder, err := httpclient.NewRequestBuilder(cfg)
//	if err != nil {
//		return err
//	}
//	req, err := builder.Build(ctx)
//
// The builder validates headers once up front and stamps out one
// *http.Request per call; request bodies are attached only for POST and PUT.
//
// [NewClient] creates an HTTP client tuned for sustained load generation
// (connection reuse, per-request timeout):
//
//	client := httpclient.NewClient(5 * time.Second)
//	resp, err := client.Do(req)
package httpclient
