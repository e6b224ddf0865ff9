// Package schema decodes channel model and stimulus protocol documents
// from JSON or YAML files into validated channel values.
//
// The wire field names follow the original JSON vocabulary: transitions
// use "from"/"to"/"rate_function_id", holding values use "voltage_mV",
// "internal_K_mM", "external_K_mM" and the optional volume fields. All
// structural and referential validation happens in the channel
// constructors; this package only maps document shape onto them.
package schema
