package study

// DialogKind names one of the two modal dialogs on the study page.
type DialogKind int

const (
	DialogHelp DialogKind = iota
	DialogExit
)

func (k DialogKind) String() string {
	switch k {
	case DialogHelp:
		return "help"
	case DialogExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Dialog is the open/closed state of a modal. The accessible-hidden flag is
// always the inverse of visibility.
type Dialog struct {
	kind DialogKind
	open bool
}

func newDialog(kind DialogKind) *Dialog {
	return &Dialog{kind: kind}
}

func (d *Dialog) Kind() DialogKind { return d.kind }

func (d *Dialog) IsOpen() bool { return d.open }

func (d *Dialog) AriaHidden() bool { return !d.open }

// Open shows the dialog and reports whether anything changed.
func (d *Dialog) Open() bool {
	if d.open {
		return false
	}
	d.open = true
	return true
}

// Close hides the dialog and reports whether anything changed.
func (d *Dialog) Close() bool {
	if !d.open {
		return false
	}
	d.open = false
	return true
}

// ClickBackdrop closes the dialog only when the click landed on the dialog
// container itself, not on its content.
func (d *Dialog) ClickBackdrop(onContainer bool) bool {
	if !onContainer {
		return false
	}
	return d.Close()
}
