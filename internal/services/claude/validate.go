package claude

import (
	"context"
	"fmt"

	"newscast/internal/services"
)

// GenerateValidated runs a completion and parses it with parse. When the
// first response fails validation, the conversation is extended with the
// model's own answer plus one corrective user turn and retried exactly
// once. A second validation failure is terminal.
func GenerateValidated[T any](ctx context.Context, api Messenger, req Request, parse func(string) (T, error)) (T, error) {
	var zero T

	raw, err := api.Complete(ctx, req)
	if err != nil {
		return zero, err
	}
	result, parseErr := parse(raw)
	if parseErr == nil {
		return result, nil
	}

	correction := fmt.Sprintf(
		"Your previous response could not be used: %v. Respond again, following the required output format exactly.",
		parseErr)
	retry := req
	retry.Messages = append(append([]Message{}, req.Messages...),
		Message{Role: "assistant", Content: raw},
		Message{Role: "user", Content: correction})

	raw, err = api.Complete(ctx, retry)
	if err != nil {
		return zero, err
	}
	result, parseErr = parse(raw)
	if parseErr != nil {
		return zero, services.Wrap(services.ErrValidation, "claude", "generate",
			"response still invalid after correction retry", parseErr)
	}
	return result, nil
}
