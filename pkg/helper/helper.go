package helper

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// method to convert from seconds to minutes:seconds.milliseconds, trimming
// trailing zeros from the millisecond part but keeping one decimal
func FormatLapTime(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	minutes := int(seconds / 60)
	remainder := seconds - float64(minutes*60)
	formatted := fmt.Sprintf("%02d:%06.3f", minutes, remainder)
	if strings.HasSuffix(formatted, "0") {
		formatted = strings.TrimRight(formatted, "0")
	}
	if strings.HasSuffix(formatted, ".") {
		formatted += "0"
	}
	return formatted
}

func SecondsToDiff(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("+%.3fs", seconds)
}

// method to convert to seconds and 3 milliseconds
func ToSectorTime(t float64) string {
	if t <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", t)
}

func GetDriverCodeName(name string) string {
	// this function reads a full driver name and returns a 3-letter code:
	// first letter of the first name plus the first 2 letters of the surname
	// if the name is empty, it will return an empty string
	if name == "" {
		return ""
	}
	// split the name into words
	words := strings.Split(name, " ")
	// get the first letter of the first word
	code := string(words[0][0])
	// if there is a second word, get the first 2 letters of it
	if len(words) > 1 {
		if len(words[1]) > 2 {
			code += words[1][:2]
		} else {
			code += words[1]
		}
	} else {
		// if there is no second word, get the next 2 letters of the first word
		if len(words[0]) > 2 {
			code += words[0][1:3]
		} else {
			code += words[0]
		}
	}
	return strings.ToUpper(code)
}

// convert name to a short stable hash, used for topic and route ids
func ToID(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprint(h.Sum32())
}
