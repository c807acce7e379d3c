// Package protocol correlates commands sent to the launcher with the output
// lines that answer them.
//
// The launcher has no request IDs: a reply is recognized by markers in its
// free-form output. Each waiting operation owns a Machine that is
// subscribed to the event bus before the command is written and
// unsubscribed when the operation ends.
//
// Example usage:
//
//	ctrl := protocol.NewController(log, bus, process, process, protocol.Config{})
//
//	if err := ctrl.Login(ctx, command.Login{Username: "Steve"}); err != nil {
//		return err
//	}
//
//	err := ctrl.Launch(ctx, command.Launch{Version: "1.20.4", Offline: true})
package protocol
