package webpush

import (
	"context"
)

// SendResult is a push service's accepted response.
type SendResult struct {
	StatusCode int
	// Location is the message URL, when the push service returns one.
	Location string
}

// Send delivers req with a single POST. Non-2xx responses come back as
// *APIError with the status and body unchanged; there is no retry.
func (c *Client) Send(ctx context.Context, req *PushRequest) (*SendResult, error) {
	if req == nil {
		return nil, validationErr("request", "is required")
	}

	resp, err := c.push.Send(ctx, req.message())
	if err != nil {
		return nil, wrapError(err)
	}

	return &SendResult{
		StatusCode: resp.StatusCode,
		Location:   resp.Location,
	}, nil
}

// Push builds a request for opts and sends it.
func (c *Client) Push(ctx context.Context, opts PushOptions) (*SendResult, error) {
	req, err := c.GeneratePushHTTPRequest(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, req)
}
