// Package completion prints shell completion scripts for jellybrowse.
package completion

import (
	"fmt"
	"io"
	"strings"
)

// Shells lists the supported shell names.
var Shells = []string{"bash", "zsh", "fish"}

// Write prints the completion script for shell to w.
func Write(w io.Writer, shell string) error {
	var script string
	switch strings.ToLower(strings.TrimSpace(shell)) {
	case "bash":
		script = BashCompletion
	case "zsh":
		script = ZshCompletion
	case "fish":
		script = FishCompletion
	default:
		return fmt.Errorf("unsupported shell: %s (supported: %s)", shell, strings.Join(Shells, ", "))
	}
	_, err := io.WriteString(w, script)
	return err
}

// Usage prints installation hints.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: jellybrowse completion <shell>")
	fmt.Fprintf(w, "Supported shells: %s\n\n", strings.Join(Shells, ", "))
	fmt.Fprintln(w, "Installation examples:")
	fmt.Fprintln(w, "  Bash:  jellybrowse completion bash > ~/.local/share/bash-completion/completions/jellybrowse")
	fmt.Fprintln(w, "  Zsh:   jellybrowse completion zsh > ~/.zsh/completion/_jellybrowse")
	fmt.Fprintln(w, "  Fish:  jellybrowse completion fish > ~/.config/fish/completions/jellybrowse.fish")
}

// BashCompletion is the bash completion script.
const BashCompletion = `# jellybrowse bash completion script
# Installation: jellybrowse completion bash > ~/.local/share/bash-completion/completions/jellybrowse

_jellybrowse_completion() {
    local cur prev words cword
    _init_completion || return

    local commands="serve root children item search play probe completion"
    local flags="-c --config --server --user --token --log-level --json --help"

    case "$prev" in
        -c|--config)
            COMPREPLY=($(compgen -f -X '!*.json' -- "$cur"))
            return
            ;;
        --log-level)
            COMPREPLY=($(compgen -W "debug info warn error" -- "$cur"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            return
            ;;
    esac

    local cmd="" w
    for w in "${words[@]:1:cword-1}"; do
        case "$w" in
            serve|root|children|item|search|play|probe|completion) cmd="$w"; break ;;
        esac
    done

    case "$cmd" in
        "")
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "$flags" -- "$cur"))
            else
                COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            fi
            ;;
        serve)
            COMPREPLY=($(compgen -W "-p --port --debug --help" -- "$cur"))
            ;;
        root)
            COMPREPLY=($(compgen -W "--recent --suggested --help" -- "$cur"))
            ;;
        children|search)
            COMPREPLY=($(compgen -W "--page --page-size --help" -- "$cur"))
            ;;
        play)
            COMPREPLY=($(compgen -f -X '!*.txt' -- "$cur"))
            ;;
    esac
}

complete -F _jellybrowse_completion jellybrowse
`

// ZshCompletion is the zsh completion script.
const ZshCompletion = `#compdef jellybrowse
# Installation: jellybrowse completion zsh > ~/.zsh/completion/_jellybrowse

_jellybrowse() {
    local -a commands
    commands=(
        'serve:Run the host HTTP bridge'
        'root:Resolve the library root node'
        'children:List the children of a node'
        'item:Resolve a single node'
        'search:Search playlists, albums and artists'
        'play:Print playable stream URLs for catalog items'
        'probe:Resolve and inspect the HLS stream of a catalog item'
        'completion:Print a shell completion script'
    )

    _arguments -C \
        '(-c --config)'{-c,--config}'[Path to config.json]:config file:_files -g "*.json"' \
        '--server[Jellyfin server base URL]:url:' \
        '--user[Jellyfin user id]:user id:' \
        '--token[Jellyfin access token]:token:' \
        '--log-level[Log level]:level:(debug info warn error)' \
        '--json[Print results as JSON]' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                serve)
                    _arguments '(-p --port)'{-p,--port}'[Listen port]:port:' '--debug[Enable gin debug mode]'
                    ;;
                root)
                    _arguments '--recent[Request the recent root]' '--suggested[Request the suggested root]'
                    ;;
                children)
                    _arguments '1:node id:' '--page[Page index]:page:' '--page-size[Page size]:size:'
                    ;;
                search)
                    _arguments '1:query:' '--page[Page index]:page:' '--page-size[Page size]:size:'
                    ;;
                play)
                    _arguments '*:item id or list:_files -g "*.txt"'
                    ;;
                completion)
                    _arguments '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_jellybrowse "$@"
`

// FishCompletion is the fish completion script.
const FishCompletion = `# jellybrowse fish completion script
# Installation: jellybrowse completion fish > ~/.config/fish/completions/jellybrowse.fish

set -l commands serve root children item search play probe completion

complete -c jellybrowse -f
complete -c jellybrowse -n "not __fish_seen_subcommand_from $commands" -a serve -d 'Run the host HTTP bridge'
complete -c jellybrowse -n "not __fish_seen_subcommand_from $commands" -a root -d 'Resolve the library root node'
complete -c jellybrowse -n "not __fish_seen_subcommand_from $commands" -a children -d 'List the children of a node'
complete -c jellybrowse -n "not __fish_seen_subcommand_from $commands" -a item -d 'Resolve a single node'
complete -c jellybrowse -n "not __fish_seen_subcommand_from $commands" -a search -d 'Search playlists, albums and artists'
complete -c jellybrowse -n "not __fish_seen_subcommand_from $commands" -a play -d 'Print playable stream URLs'
complete -c jellybrowse -n "not __fish_seen_subcommand_from $commands" -a probe -d 'Inspect the HLS stream of an item'
complete -c jellybrowse -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Print a shell completion script'

complete -c jellybrowse -s c -l config -r -F -d 'Path to config.json'
complete -c jellybrowse -l server -x -d 'Jellyfin server base URL'
complete -c jellybrowse -l user -x -d 'Jellyfin user id'
complete -c jellybrowse -l token -x -d 'Jellyfin access token'
complete -c jellybrowse -l log-level -x -a 'debug info warn error' -d 'Log level'
complete -c jellybrowse -l json -d 'Print results as JSON'

complete -c jellybrowse -n "__fish_seen_subcommand_from serve" -s p -l port -x -d 'Listen port'
complete -c jellybrowse -n "__fish_seen_subcommand_from serve" -l debug -d 'Enable gin debug mode'
complete -c jellybrowse -n "__fish_seen_subcommand_from root" -l recent -d 'Request the recent root'
complete -c jellybrowse -n "__fish_seen_subcommand_from root" -l suggested -d 'Request the suggested root'
complete -c jellybrowse -n "__fish_seen_subcommand_from children search" -l page -x -d 'Page index'
complete -c jellybrowse -n "__fish_seen_subcommand_from children search" -l page-size -x -d 'Page size'
complete -c jellybrowse -n "__fish_seen_subcommand_from play" -F
complete -c jellybrowse -n "__fish_seen_subcommand_from completion" -x -a 'bash zsh fish'
`
