package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconCheckList = " " //
	IconBox       = "[ ]"
	IconBoxDone   = "[x]"
	IconBoxPartly = "[-]"
	IconExpanded  = "▾"
	IconCollapsed = "▸"
	IconDue       = "" // 
	IconGuide     = "│"
	IconDrag      = "≡"
	IconDirty     = "●"
	IconInfo      = "ℹ"
	IconError     = "✘"
	IconCelebrate = "★"
)

// Priority markers, highest first.
var (
	IconPriorityHigh   = "!!!"
	IconPriorityMedium = "!!"
	IconPriorityLow    = "!"
)
