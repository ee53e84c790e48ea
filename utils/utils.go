package utils

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

func RoundToXDp(f float64, dp uint8) float64 {
	e := math.Pow(10, float64(dp))
	return math.Round(f*e) / e
}

// FormatValue prints f with at most dp decimals and no trailing zeros.
func FormatValue(f float64, dp uint8) string {
	return strconv.FormatFloat(RoundToXDp(f, dp), 'f', -1, 64)
}

func NextAvailableFilename(dir, name, ext string) string {
	path := filepath.Join(dir, name+ext)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	for i := 1; ; i++ {
		newName := fmt.Sprintf("%s_%d%s", name, i, ext)
		newPath := filepath.Join(dir, newName)
		if _, err := os.Stat(newPath); os.IsNotExist(err) {
			return newPath
		}
	}
}
