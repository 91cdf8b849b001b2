// Package http provides a fluent request builder over net/http with
// synchronous and asynchronous dispatch.
//
// This package is designed for programmatic use and provides:
//   - A Builder that accumulates method, URL, headers, body and timeout
//     into an immutable Request
//   - A Client with functional options that sends a Request either
//     blocking (Send) or through a Future (SendAsync)
//   - A Response carrying status, headers, body, timing and the
//     originating Request
//   - A closed error taxonomy usable with errors.Is
//
// Basic Usage:
//
//	resp, err := http.Get("https://api.example.com/users").
//	    WithHeader("Accept", "application/json").
//	    WithTimeout(3 * time.Second).
//	    Send(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Status: %d\n", resp.StatusCode)
//	fmt.Printf("Body: %s\n", resp.GetBodyAsString())
//
// Async Example:
//
//	client := http.NewClient(http.WithRequestTimeout(10 * time.Second))
//
//	future := client.Post("https://api.example.com/orders").
//	    WithContentType(http.ContentTypeJSON).
//	    WithStringBody(`{"item":"book"}`).
//	    SendAsync(ctx)
//
//	// ... do other work ...
//
//	resp, err := future.Wait()
//	switch {
//	case errors.Is(err, http.ErrTimeout):
//	    // deadline exceeded
//	case errors.Is(err, http.ErrCancelled):
//	    // future.Cancel() was called
//	}
//
// Redirects:
//
// By default redirects are followed, except that a redirect from HTTPS to
// HTTP fails with ErrInsecureRedirect. More than WithMaxRedirects hops
// fails with ErrTooManyRedirects. Use WithRedirectPolicy to change this.
//
// Thread Safety:
//
// Client is safe for concurrent use. Builders are not: each Builder is
// meant for constructing one request on one goroutine. A built Request is
// immutable and may be read from any goroutine, but is sent only once.
package http
