// Package headlessmc supervises a HeadlessMC launcher running as a child
// process and drives it over its line-oriented console.
//
// A Client spawns the launcher jar with a discovered java executable, writes
// commands to its stdin and classifies every line it prints. Login and Launch
// wait for the launcher to confirm the operation; the other commands are
// written and left to the output stream.
//
// # Basic Usage
//
//	err := headlessmc.WithClient(ctx, func(c headlessmc.Client) error {
//	    if err := c.Login(ctx, ""); err != nil {
//	        return err
//	    }
//
//	    if err := c.Launch(ctx, headlessmc.Launch{Version: "1.20.4"}); err != nil {
//	        return err
//	    }
//
//	    return c.Wait(ctx)
//	},
//	    headlessmc.WithJarPath("headlessmc-launcher.jar"),
//	    headlessmc.WithLoginPromptHandler(func(url string) {
//	        fmt.Println("sign in at", url)
//	    }),
//	)
//
// # Output
//
// Every launcher line is published to subscribers in the order it was read:
//
//	unsubscribe := client.Subscribe(func(ev headlessmc.Event) {
//	    if ev.Kind == headlessmc.EventError {
//	        log.Println("launcher:", ev.Text())
//	    }
//	})
//	defer unsubscribe()
//
// # Error Handling
//
// Operation failures are typed. An exception while launching, or the
// launcher exiting with a non-zero code, is fatal:
//
//	if err := client.Launch(ctx, headlessmc.Launch{Version: v}); err != nil {
//	    if headlessmc.IsFatal(err) {
//	        log.Fatal(err)
//	    }
//
//	    if opErr, ok := errors.AsType[*headlessmc.OperationError](err); ok {
//	        log.Printf("%s failed: %s", opErr.Op, opErr.Payload)
//	    }
//	}
//
// # Shutdown
//
// Quit asks an idle launcher to exit. Once a game is running the launcher
// no longer reads commands, so Quit kills the game and every other
// descendant of the launcher, then the launcher itself.
package headlessmc
