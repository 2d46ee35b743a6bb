package models

// PortalConfig is the single configuration document (Configs collection).
// It is threaded explicitly into the notifier, never read as ambient state.
type PortalConfig struct {
	ID         string `bson:"_id" json:"id"`
	Name       string `bson:"name" json:"name"`
	PortalURL  string `bson:"portalUrl" json:"portalUrl"`
	SenderName string `bson:"senderName" json:"senderName"`
}
