package codec

import (
	"math"
	"strconv"
)

var sizeUnits = [...]string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders n bytes in base-1024 units with at most two
// decimals and no trailing zeros: "0 Bytes", "512 Bytes", "1.5 KB", "10 MB".
// Sizes past the gigabyte range stay in GB.
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}

	i := 0
	for div := int64(1024); n >= div && i < len(sizeUnits)-1; div *= 1024 {
		i++
	}

	v := float64(n) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
