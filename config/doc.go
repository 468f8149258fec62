// Package config resolves type declarations into the configuration consumed
// by the union and product composers.
//
// Declarations come from YAML documents (Parse, Load) or from WIT type
// definitions (FromWIT, LoadWITJSON). Every problem with a declaration is
// reported as a config-phase error from errors; nothing here produces
// out_of_space or out_of_range.
//
// # Unions
//
// A union names an integer representation and a tag per variant:
//
//	types:
//	  mode:
//	    union:
//	      repr: u16
//	      strict: true
//	      variants:
//	        - {name: idle, tag: 0, zero: true}
//	        - {name: run, tag: 0x10}
//
// Tags accept base prefixes and underscores and must fit the representation.
// Without strict, a union with no zero designation falls back to the variant
// whose tag is zero, then to the first variant.
//
// BindUnion maps a resolved union onto Go values:
//
//	codec, err := config.CompileUnion(doc, "mode", podcodec.Uint16, map[string]Mode{
//	    "idle": ModeIdle,
//	    "run":  ModeRun,
//	})
package config
