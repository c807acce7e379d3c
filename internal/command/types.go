package command

// Compile-time verification that all command records implement Command.
var (
	_ Command = (*Login)(nil)
	_ Command = (*Launch)(nil)
	_ Command = (*Fabric)(nil)
	_ Command = (*Forge)(nil)
	_ Command = (*Download)(nil)
	_ Command = (*Quit)(nil)
	_ Command = (*Raw)(nil)
)

// Login starts the account login flow.
type Login struct {
	// Username is optional; without it the launcher picks the device-code flow.
	Username string
}

func (Login) Name() string         { return NameLogin }
func (Login) Positional() []string { return nil }

func (c Login) Options() Options {
	return Options{}.Value("username", c.Username)
}

// Launch starts a game instance. Version is required.
type Launch struct {
	Version string

	ID        bool
	Commands  bool
	LWJGL     bool
	InMemory  bool
	JNDI      bool
	Lookup    bool
	PaulsCode bool
	NoOut     bool
	Quit      bool
	Offline   bool

	// JVM holds extra JVM arguments for the game process.
	JVM string

	// Retries is omitted from the line when zero.
	Retries int
}

func (Launch) Name() string { return NameLaunch }

func (c Launch) Positional() []string {
	if c.Version == "" {
		return nil
	}

	return []string{c.Version}
}

func (c Launch) Options() Options {
	opts := Options{}.
		Flag("id", c.ID).
		Flag("commands", c.Commands).
		Flag("lwjgl", c.LWJGL).
		Flag("inmemory", c.InMemory).
		Flag("jndi", c.JNDI).
		Flag("lookup", c.Lookup).
		Flag("paulscode", c.PaulsCode).
		Flag("noout", c.NoOut).
		Flag("quit", c.Quit).
		Flag("offline", c.Offline).
		Value("jvm", c.JVM)

	if c.Retries > 0 {
		opts = opts.Value("retries", c.Retries)
	}

	return opts
}

// Fabric installs the Fabric loader.
type Fabric struct {
	InMemory bool

	Version string
	JVM     string
	Java    string
	UID     string
}

func (Fabric) Name() string         { return NameFabric }
func (Fabric) Positional() []string { return nil }

func (c Fabric) Options() Options {
	return Options{}.
		Flag("inmemory", c.InMemory).
		Value("version", c.Version).
		Value("jvm", c.JVM).
		Value("java", c.Java).
		Value("uid", c.UID)
}

// Forge installs or lists Forge versions.
type Forge struct {
	Refresh  bool
	List     bool
	InMemory bool

	Version string
	UID     string
}

func (Forge) Name() string         { return NameForge }
func (Forge) Positional() []string { return nil }

func (c Forge) Options() Options {
	return Options{}.
		Flag("refresh", c.Refresh).
		Flag("list", c.List).
		Flag("inmemory", c.InMemory).
		Value("version", c.Version).
		Value("uid", c.UID)
}

// Download fetches a game version.
type Download struct {
	ID       bool
	Snapshot bool
	Release  bool
	Other    bool

	Version string
}

func (Download) Name() string         { return NameDownload }
func (Download) Positional() []string { return nil }

func (c Download) Options() Options {
	return Options{}.
		Flag("id", c.ID).
		Flag("snapshot", c.Snapshot).
		Flag("release", c.Release).
		Flag("other", c.Other).
		Value("version", c.Version)
}

// Quit asks the launcher to exit.
type Quit struct{}

func (Quit) Name() string         { return NameQuit }
func (Quit) Positional() []string { return nil }
func (Quit) Options() Options     { return nil }

// Raw is an arbitrary command line, used for commands without a typed record.
type Raw struct {
	Command string
	Args    []string
	Opts    Options
}

func (c Raw) Name() string         { return c.Command }
func (c Raw) Positional() []string { return c.Args }
func (c Raw) Options() Options     { return c.Opts }
