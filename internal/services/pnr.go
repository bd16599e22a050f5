package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const pnrPrefix = "PNR"

// PNRGenerator builds PNR codes: prefix, last 8 digits of the unix
// millisecond clock, 2-digit random suffix.
type PNRGenerator struct {
	Now  func() time.Time
	Rand func(n int) int
}

func (g PNRGenerator) Next() string {
	now := g.Now
	if now == nil {
		now = time.Now
	}
	rnd := g.Rand
	if rnd == nil {
		rnd = rand.Intn
	}

	ms := strconv.FormatInt(now().UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	} else {
		ms = strings.Repeat("0", 8-len(ms)) + ms
	}
	return fmt.Sprintf("%s%s%02d", pnrPrefix, ms, rnd(100))
}
