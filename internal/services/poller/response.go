package poller

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/BearBump/ReviewBox/internal/models"
	"github.com/pkg/errors"
)

type InvalidResponseTypeError struct {
	Got string
}

func (e *InvalidResponseTypeError) Error() string {
	return fmt.Sprintf("response is %s, want object", e.Got)
}

type ResponseContentError struct {
	Reason string
}

func (e *ResponseContentError) Error() string {
	return "response content: " + e.Reason
}

type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("homeworks[%d]: missing field %q", e.Index, e.Field)
}

// ExtractHomeworks validates a decoded API payload and returns its homeworks.
// An empty "homeworks" list is a valid result, only logged.
func ExtractHomeworks(payload any) ([]models.Homework, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		slog.Error("unexpected response type", "type", typeName(payload))
		return nil, errors.WithStack(&InvalidResponseTypeError{Got: typeName(payload)})
	}
	slog.Debug("response contains object")

	raw, ok := m["homeworks"]
	if !ok {
		return nil, errors.WithStack(&ResponseContentError{Reason: `no "homeworks" key`})
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.WithStack(&ResponseContentError{
			Reason: fmt.Sprintf(`"homeworks" is %s, want list`, typeName(raw)),
		})
	}
	if len(list) == 0 {
		slog.Warn("response contains no homeworks")
		return []models.Homework{}, nil
	}

	out := make([]models.Homework, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, errors.WithStack(&ResponseContentError{
				Reason: fmt.Sprintf("homeworks[%d] is %s, want object", i, typeName(item)),
			})
		}
		hw, err := parseHomework(i, obj)
		if err != nil {
			return nil, err
		}
		out = append(out, hw)
	}
	slog.Debug("response contains homeworks", "count", len(out))
	return out, nil
}

func parseHomework(i int, obj map[string]any) (models.Homework, error) {
	rawID, ok := obj["id"]
	if !ok || rawID == nil {
		return models.Homework{}, errors.WithStack(&MissingFieldError{Index: i, Field: "id"})
	}
	id, err := idString(rawID)
	if err != nil {
		return models.Homework{}, errors.WithStack(&ResponseContentError{
			Reason: fmt.Sprintf("homeworks[%d].id: %s", i, err.Error()),
		})
	}

	name, err := stringField(i, obj, "homework_name")
	if err != nil {
		return models.Homework{}, err
	}
	status, err := stringField(i, obj, "status")
	if err != nil {
		return models.Homework{}, err
	}
	if _, err := models.Verdict(status); err != nil {
		return models.Homework{}, errors.WithStack(err)
	}

	return models.Homework{ID: id, Name: name, Status: status}, nil
}

func stringField(i int, obj map[string]any, field string) (string, error) {
	raw, ok := obj[field]
	if !ok || raw == nil {
		return "", errors.WithStack(&MissingFieldError{Index: i, Field: field})
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.WithStack(&ResponseContentError{
			Reason: fmt.Sprintf("homeworks[%d].%s is %s, want string", i, field, typeName(raw)),
		})
	}
	return s, nil
}

// idString normalises string and integer ids to one representation: the API
// sends integers, and "42" and 42 name the same submission.
func idString(v any) (string, error) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", errors.New("empty id")
		}
		return id, nil
	case json.Number:
		if _, err := id.Int64(); err != nil {
			return "", errors.Errorf("id %s is not an integer", id)
		}
		return id.String(), nil
	case float64:
		if id != float64(int64(id)) {
			return "", errors.Errorf("id %v is not an integer", id)
		}
		return strconv.FormatInt(int64(id), 10), nil
	case int:
		return strconv.Itoa(id), nil
	case int64:
		return strconv.FormatInt(id, 10), nil
	default:
		return "", errors.Errorf("id is %s", typeName(v))
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case json.Number, float64, int, int64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
