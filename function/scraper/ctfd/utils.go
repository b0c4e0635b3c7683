package ctfd

import (
	"strings"

	"github.com/ctfwriteup/ctfwriteup/function/log"
	"github.com/ctfwriteup/ctfwriteup/function/utils"
)

var permissionWords = []string{"permission", "access", "readable", "protected", "forbidden"}

// Parse information from ctfd and get data response. Permission errors are
// logged and leave data untouched, CTFd returns them for locked challenges.
func getData(byte []byte, data any) error {
	err := utils.GetJson(byte, data)
	if err == nil {
		return nil
	}
	message := strings.ToLower(err.Error())
	for _, word := range permissionWords {
		if strings.Contains(message, word) {
			log.ErrorH2("permission error: %s", err)
			return nil
		}
	}
	return err
}
