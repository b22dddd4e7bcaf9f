// Package config loads pinga's tool settings.
//
// Settings come from a YAML file named by PINGA_SETTINGS or found in the
// working directory (.pinga.yaml, .pinga.yml, pinga.yaml), with PINGA_
// environment variables applied on top. They control the transport
// (timeout, redirects, TLS, proxy, default headers) and diagnostics. The
// request itself is described by the JSON config given on the command line.
package config
