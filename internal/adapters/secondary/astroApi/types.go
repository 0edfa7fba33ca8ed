package astroApi

import "encoding/json"

// envelope общий формат ответа API: {"statusCode": 200, "output": ...}
type envelope struct {
	StatusCode *int            `json:"statusCode"`
	Output     json.RawMessage `json:"output"`
}
