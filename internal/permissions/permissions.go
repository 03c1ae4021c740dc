// Package permissions implements the per-customer module view-permission
// gate. A customer with no explicit row for a module is allowed; an explicit
// row with can_view=false denies access.
package permissions

// Known permission modules.
const (
	ModuleLogs         = "LOGS"
	ModuleAppointments = "APPOINTMENTS"
)

// Modules lists every feature area gated by a view permission.
var Modules = []string{ModuleLogs, ModuleAppointments}

// IsValidModule reports whether value names a known permission module.
func IsValidModule(value string) bool {
	for _, m := range Modules {
		if m == value {
			return true
		}
	}
	return false
}
