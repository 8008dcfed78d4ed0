package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassField    ChromeClass = "selectfield"
	ClassLabel    ChromeClass = "selectfield-label"
	ClassControl  ChromeClass = "selectfield-control"
	ClassOption   ChromeClass = "selectfield-option"
	ClassErrors   ChromeClass = "selectfield-errors"
	ClassDisabled ChromeClass = "selectfield-disabled"
)

// Theme partial keys that replace the built-in templates.
const (
	PartialWrapper    = "selectfield.wrapper"
	PartialSelect     = "selectfield.select"
	PartialCheckboxes = "selectfield.checkboxes"
)

const (
	templateWrapper    = "templates/wrapper.tpl"
	templateSelect     = "templates/select.tpl"
	templateCheckboxes = "templates/checkboxes.tpl"
)
