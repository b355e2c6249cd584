package kvstore

// Collection keys, one per persisted collection
const (
	KeyUsers         = "portalAllUsers"
	KeyConversations = "portalConversations"
	KeyNotices       = "portalNotices"
	KeyTopics        = "portalTopics"
	KeyResources     = "portalResources"
	KeyEvents        = "portalEvents"
	KeyMarketplace   = "portalMarketplace"
	KeyPlacements    = "portalPlacements"
	KeyStories       = "portalStories"
	KeyNotes         = "portalNotes"
	KeyNotifications = "portalNotifications"
	KeyCredentials   = "portalCredentials"
	KeySession       = "portalUser"
	KeySeeded        = "portalSeeded"
	KeyTheme         = "portalTheme"
)

// AllKeys lists every key the portal writes
var AllKeys = []string{
	KeyUsers, KeyConversations, KeyNotices, KeyTopics, KeyResources, KeyEvents,
	KeyMarketplace, KeyPlacements, KeyStories, KeyNotes, KeyNotifications,
	KeyCredentials, KeySession, KeySeeded, KeyTheme,
}
