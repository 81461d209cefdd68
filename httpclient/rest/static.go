package rest

import "context"

// Create returns a Resource of the default client.
func Create(path string) (*Resource, error) {
	return Default().Create(path)
}

// GET sends a GET request through the default client.
func GET(ctx context.Context, url string, opts ...CallOption) (*Response, error) {
	return Default().Get(ctx, url, opts...)
}

// POST sends a POST request through the default client.
func POST(ctx context.Context, url string, body any, opts ...CallOption) (*Response, error) {
	return Default().Post(ctx, url, body, opts...)
}

// PUT sends a PUT request through the default client.
func PUT(ctx context.Context, url string, body any, opts ...CallOption) (*Response, error) {
	return Default().Put(ctx, url, body, opts...)
}

// DELETE sends a DELETE request through the default client.
func DELETE(ctx context.Context, url string, opts ...CallOption) (*Response, error) {
	return Default().Delete(ctx, url, opts...)
}
