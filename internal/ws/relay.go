package ws

import "context"

// Relay es la costura para escalar horizontalmente: un broadcast local se
// publica tambien hacia las demas instancias, que lo reinyectan en su hub.
// Sin relay configurado la membresia es solo local al proceso.
type Relay interface {
	Publish(ctx context.Context, conversationID string, payload []byte) error
	Close() error
}
