//go:build android
// +build android

package memory

func DefaultFormatMapper() FormatMapper {
	return PassthroughFormatMapper{}
}
