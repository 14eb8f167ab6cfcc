package squad

// Storage keys. The _v2 suffix is the schema version of the stored JSON.
const (
	GroupsKey     = "squad_db_v2"
	ProfileKey    = "squad_profile_v2"
	MembershipKey = "squad_my_groups_v2"
)

// Presentation defaults.
const (
	DefaultAvatar       = "😎"
	DefaultCounterEmoji = "🏆"
	DefaultCounterColor = "bg-indigo-400"
)

// ProfileColors is the palette a new profile picks its color from.
var ProfileColors = []string{"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#8b5cf6", "#ec4899", "#06b6d4"}

// CounterColors lists the color tokens offered for new counters.
var CounterColors = []string{
	"bg-red-400", "bg-orange-400", "bg-amber-400", "bg-green-400",
	"bg-blue-400", "bg-indigo-400", "bg-purple-400", "bg-pink-400",
}
