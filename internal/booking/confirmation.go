package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	confirmationPrefix   = "MPH"
	confirmationAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	confirmationSuffix   = 5
)

// newConfirmationNumber returns MPH, the base36 millisecond timestamp and a
// random base36 suffix, all upper case.
func newConfirmationNumber(now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(confirmationAlphabet, confirmationSuffix)
	if err != nil {
		return "", fmt.Errorf("generate confirmation suffix: %w", err)
	}
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return confirmationPrefix + stamp + suffix, nil
}
