package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/muhamm-ad/rpasign/internal/common"
)

// DurationPattern matches a maximum stay such as 15 MIN or 2 HEURES.
const DurationPattern = `\d+\s?(?:MINUTES|MINUTE|MIN|HEURES|HEURE|HRES|HRE)\b`

var durationRe = regexp.MustCompile(`^(\d+)\s?(MINUTES|MINUTE|MIN|HEURES|HEURE|HRES|HRE)$`)

// Duration is a maximum parking duration in minutes.
type Duration int

// NewDuration validates a minute count.
func NewDuration(minutes int) (Duration, error) {
	if minutes < 0 {
		return 0, common.NewFormatError(common.KindDuration, strconv.Itoa(minutes))
	}
	return Duration(minutes), nil
}

// ParseDuration parses digits followed by a unit. Hour units are converted
// to minutes.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)

	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, common.NewFormatError(common.KindDuration, s)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, common.WrapFormatError(common.KindDuration, s, err)
	}

	if strings.HasPrefix(m[2], "H") {
		n *= 60
	}
	return NewDuration(n)
}

// Minutes returns the duration as an int.
func (d Duration) Minutes() int {
	return int(d)
}

// Token renders the duration in canonical sign form.
func (d Duration) Token() string {
	return fmt.Sprintf("%d MIN", int(d))
}

func (d Duration) String() string {
	return fmt.Sprintf("%d min", int(d))
}
