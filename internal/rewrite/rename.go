package rewrite

import "strings"

// FactoryMethodName replaces a read-like prefix (Get/Find/Fetch/Retrieve)
// at the start of name with "Create", so "GetReader" becomes
// "CreateReader" (§4.9 "rename factory method to a Create*/Build*
// form"). A name without such a prefix, or consisting of the prefix
// alone, is returned unchanged. The actual
// cross-file symbol rename is the host's renaming service's job (§4.9:
// "via the host's renaming service") — this repository has no such
// service to drive, so this function only derives the target name a
// fix would hand to one.
func FactoryMethodName(name string) string {
	for _, prefix := range []string{"Get", "Find", "Fetch", "Retrieve"} {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			rest := name[len(prefix):]
			return "Create" + rest
		}
	}
	return name
}
