package mcp

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
)

// arguments returns the tool call arguments as a map.
func arguments(request mcp.CallToolRequest) (map[string]interface{}, error) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid arguments format")
	}
	return argsMap, nil
}

// bindArguments decodes the call arguments into target using json tags.
// Some clients send every value as a string, so numbers, booleans and
// JSON-encoded lists are parsed from text.
func bindArguments[T any](request mcp.CallToolRequest, target *T) error {
	argsMap, err := arguments(request)
	if err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       jsonStringHook,
		Result:           target,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(argsMap); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// jsonStringHook decodes JSON arrays sent as strings into slice fields.
func jsonStringHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
		return data, nil
	}
	raw := strings.TrimSpace(data.(string))
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return data, nil
	}
	slicePtr := reflect.New(to)
	if err := json.Unmarshal([]byte(raw), slicePtr.Interface()); err != nil {
		return data, nil
	}
	return slicePtr.Elem().Interface(), nil
}

// requireString reports a missing or empty required argument.
func requireString(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s parameter is required", key)
	}
	return nil
}

// clamp returns def for an unset (zero) n, otherwise n bounded to [lo, hi].
func clamp(n, def, lo, hi int) int {
	switch {
	case n == 0:
		return def
	case n < lo:
		return lo
	case n > hi:
		return hi
	}
	return n
}
