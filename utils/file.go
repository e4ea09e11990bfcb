package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

func GetUniqTag() string {
	return uuid.NewString()
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// 解析为规范绝对路径，用作格网缓存键
func ResolvePath(path string) (ret string, err error) {
	if ret, err = filepath.Abs(path); err != nil {
		return
	}
	if resolved, e := filepath.EvalSymlinks(ret); e == nil {
		ret = resolved
	}
	return
}
