package game

// Publisher delivers text to connected sessions. Implementations route
// per-player messages over the embedded broker; world messages fan out to
// every subscribed session.
type Publisher interface {
	PublishToPlayer(name string, data []byte) error
	PublishToWorld(data []byte) error
}
