package headlessmc

import "github.com/wagiedev/headlessmc-go/internal/config"

// Transport defines the interface for talking to the launcher process.
// Implement this to provide custom transports for testing or mocking.
//
// The default implementation spawns the launcher jar under java.
// Custom transports can be injected via WithTransport.
type Transport = config.Transport
