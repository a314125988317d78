package engine

var tips = []string{
	"Correct words earn up to four ✓ marks.",
	"Words you answer correctly come up less often afterwards.",
	"Send \"@new name\" to change the name shown in the rankings.",
	"The review range only asks words you got wrong.",
	"A fast answer moves a word up faster than a slow one.",
	"Your streak multiplier is cubed. Keep it unbroken!",
	"Weekly points reset seven days after your first point of the week.",
	"Every now and then a fever starts and points are multiplied.",
}
