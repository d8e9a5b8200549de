package model

// Config holds the user's configuration.
type Config struct {
	ServerURL     string `json:"serverUrl"`
	UserID        string `json:"userId"`
	AccessToken   string `json:"accessToken"`
	DeviceID      string `json:"deviceId,omitempty"`
	DeviceName    string `json:"deviceName,omitempty"`
	ClientName    string `json:"clientName,omitempty"`
	ClientVersion string `json:"clientVersion,omitempty"`
	ListenPort    int    `json:"listenPort,omitempty"`
	LogLevel      string `json:"logLevel,omitempty"`
	APILogPath    string `json:"apiLogPath,omitempty"`
	Debug         bool   `json:"debug,omitempty"`
}

// Args holds CLI arguments parsed by go-arg.
type Args struct {
	Config      string `arg:"-c,--config,env:JELLYBROWSE_CONFIG" help:"Path to config.json (default: search ./, ~/.jellybrowse, ~/.config/jellybrowse)"`
	ServerURL   string `arg:"--server,env:JELLYBROWSE_SERVER" help:"Jellyfin server base URL"`
	UserID      string `arg:"--user,env:JELLYBROWSE_USER" help:"Jellyfin user id"`
	AccessToken string `arg:"--token,env:JELLYBROWSE_TOKEN" help:"Jellyfin access token"`
	LogLevel    string `arg:"--log-level,env:LOG_LEVEL" help:"debug, info, warn or error"`
	JSON        bool   `arg:"--json" help:"Print results as JSON instead of tables"`

	Serve    *ServeCmd    `arg:"subcommand:serve" help:"Run the host HTTP bridge"`
	Root     *RootCmd     `arg:"subcommand:root" help:"Resolve the library root node"`
	Children *ChildrenCmd `arg:"subcommand:children" help:"List the children of a node"`
	Item     *ItemCmd     `arg:"subcommand:item" help:"Resolve a single node"`
	Search   *SearchCmd   `arg:"subcommand:search" help:"Search playlists, albums and artists"`
	Play     *PlayCmd     `arg:"subcommand:play" help:"Print playable stream URLs for catalog items"`
	Probe    *ProbeCmd    `arg:"subcommand:probe" help:"Resolve and inspect the HLS stream of a catalog item"`

	Completion *CompletionCmd `arg:"subcommand:completion" help:"Print a shell completion script"`
}

// ServeCmd runs the HTTP bridge.
type ServeCmd struct {
	Port  int  `arg:"-p,--port,env:PORT" help:"Listen port (default 8095)"`
	Debug bool `arg:"--debug" help:"Enable gin debug mode"`
}

// RootCmd resolves the root node.
type RootCmd struct {
	Recent    bool `arg:"--recent" help:"Request the recent root"`
	Suggested bool `arg:"--suggested" help:"Request the suggested root"`
}

// ChildrenCmd lists children of a node.
type ChildrenCmd struct {
	Node     string `arg:"positional,required" help:"Node id (route token)"`
	Page     int    `arg:"--page" default:"0" help:"Page index"`
	PageSize int    `arg:"--page-size" default:"50" help:"Page size"`
}

// ItemCmd resolves a single node.
type ItemCmd struct {
	Node string `arg:"positional,required" help:"Node id (route token)"`
}

// SearchCmd runs a search.
type SearchCmd struct {
	Query    string `arg:"positional,required" help:"Search term"`
	Page     int    `arg:"--page" default:"0" help:"Page index (ignored by the catalog search)"`
	PageSize int    `arg:"--page-size" default:"50" help:"Page size (ignored by the catalog search)"`
}

// PlayCmd resolves stream URLs.
type PlayCmd struct {
	Items []string `arg:"positional,required" help:"Catalog item ids, or .txt files listing one id per line"`
}

// ProbeCmd resolves and inspects a stream.
type ProbeCmd struct {
	Item string `arg:"positional,required" help:"Catalog item id"`
}

// CompletionCmd prints a shell completion script.
type CompletionCmd struct {
	Shell string `arg:"positional" help:"bash, zsh or fish"`
}

// Description provides custom help text for go-arg.
func (Args) Description() string {
	return "jellybrowse exposes a Jellyfin music library as a browsable media tree.\n"
}
