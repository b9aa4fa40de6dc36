package config

import "strings"

// EnvPrefix prefixes the environment variable of every option.
const EnvPrefix = "HARP_"

// EnvName returns the environment variable that carries the option key,
// e.g. HARP_SFDP_PATH for sfdp-path.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// ApplyEnv overlays every option whose variable lookup reports as set.
// lookup is usually os.LookupEnv.
func ApplyEnv(o *Options, lookup func(string) (string, bool)) error {
	for _, key := range Keys {
		value, ok := lookup(EnvName(key))
		if !ok {
			continue
		}
		if err := o.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}
