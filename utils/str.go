package utils

import (
	"io"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func StrToInt(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

func StrToFloats(ss []string) (rets []float64, ok bool) {
	rets = make([]float64, len(ss))
	var e error
	for i, s := range ss {
		if rets[i], e = strconv.ParseFloat(s, 64); e != nil {
			return
		}
	}
	ok = true
	return
}

func B2S(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

func S2B(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Latin-1 转 UTF-8（IGN发布的格网文件采用ISO 8859-1编码）
func Latin1ToUtf8(r io.Reader) io.Reader {
	return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
}

// Latin-1 string 转 UTF-8
func Latin1StrToUtf8(s string) (d string, e error) {
	reader := transform.NewReader(strings.NewReader(s), charmap.ISO8859_1.NewDecoder())
	t, e := io.ReadAll(reader)
	if e != nil {
		return
	}
	d = B2S(t)
	return
}
