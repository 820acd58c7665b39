package values

import (
	"fmt"
	"strconv"
	"strings"

	"rpgexec/errors"
)

// FormatValueForDisplay renders a value the way DSPLY shows it: strings
// without their padding, booleans as the indicator digits 1 and 0, numbers
// in plain decimal notation
func FormatValueForDisplay(value Value) (string, error) {
	switch v := value.(type) {
	case StrValue:
		return strings.TrimRight(v.Content(), " "), nil
	case BoolValue:
		if v.Value {
			return "1", nil
		}
		return "0", nil
	case IntValue:
		return strconv.FormatInt(v.Value, 10), nil
	case DecimalValue:
		return v.Value.String(), nil
	default:
		return "", errors.NewNotImplementedError(fmt.Sprintf("display of %s", value.Kind()))
	}
}

// FormatBytes formats raw record bytes as <<18,52,86>>
func FormatBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = strconv.Itoa(int(b))
	}
	return "<<" + strings.Join(parts, ",") + ">>"
}
