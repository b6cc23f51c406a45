package validation

import (
	"regexp"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// modelIDPattern is the grammar shared by model identifiers and the tokens
// of a pseudo-command that is really a static model list.
var modelIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._:/\-]+$`)

// dangerousPatterns are substrings that disqualify a command outright. The
// command is lower-cased before matching. This is a denylist, not a parser:
// it cannot prove a command safe, only reject known-bad shapes, so the
// entries stay deliberately broad.
var dangerousPatterns = []string{
	// command chaining into rm
	";rm ", "; rm ",
	"|rm ", "| rm ",
	"&&rm ", "&& rm ",
	"||rm ", "|| rm ",
	"rm -rf",
	// chaining into reboot/shutdown
	";reboot", ";shutdown",
	"|reboot", "|shutdown",
	"&&reboot", "&&shutdown",
	"||reboot", "||shutdown",
	// command substitution
	"`",
	"$(",
	// redirection into/from system paths
	">/etc/", ">>/etc/",
	"</etc/", "< /etc/",
	" > /", " >> /", " < /",
	// piping into a shell
	" | sh", " | bash",
	// privilege escalation and system mutation
	"sudo ", "su ",
	"chmod ", "chown ",
	"mv ", "cp ", "ln ",
	"mount ", "umount ",
	"kill ", "killall ",
	"crontab ",
	"systemctl ", "service ", "init ",
	// remote access and transfers
	"telnet ", "nc ", "netcat ",
	"ssh ", "scp ", "rsync ",
	"wget ", "ftp ", "sftp ",
	// repository and package mutation
	"git clone ", "git push ", "git pull ", "git fetch ", "git checkout ",
	"pip install ", "npm install ", "yarn add ", "gem install ",
	"apt-get ", "yum ", "dnf ", "brew ",
	"make install",
	// code evaluation
	"eval ", "exec ", "source ",
}

// dangerousPaths are filesystem locations a discovery command has no
// business touching. Matched as raw substrings, case sensitive.
var dangerousPaths = []string{
	"/etc/passwd",
	"/etc/shadow",
	"/etc/group",
	"/etc/sudoers",
	"/root/",
	"/home/",
	"/usr/bin/",
	"/bin/",
	"/sbin/",
	"~/.ssh/",
	"~/.bashrc",
	"~/.zshrc",
	"~/.profile",
}

// safeConstructs are shell constructs needed by legitimate composite
// commands (pipelines into jq, sourcing a token file, variable expansion).
// A command containing one of these is accepted once it has cleared the
// denylists above; denylist coverage is assumed sufficient for them.
var safeConstructs = []string{
	"|",
	"&&",
	". ",
	"${",
}

// safeExecutables is the allowlist for the first token of a simple command.
var safeExecutables = map[string]bool{
	"curl":   true,
	"echo":   true,
	"cat":    true,
	"python": true, "python3": true,
	"node": true, "npm": true,
	"sh": true, "bash": true,
	"ls": true, "pwd": true, "whoami": true, "date": true,
	"git":    true,
	"docker": true,
	"jq":     true,
	"grep":   true, "find": true,
	"wc": true, "sort": true, "uniq": true,
	"head": true, "tail": true,
	"sed": true, "awk": true,
	"camgr": true,
}

// destructiveExecutables never run, even though their names satisfy the
// model-ID grammar and would otherwise slip through the static-list
// shortcut.
var destructiveExecutables = map[string]bool{
	"rm":    true,
	"rmdir": true,
	"dd":    true,
	"mkfs":  true,
	"shred": true,
}

// dangerousArgPatterns disqualify individual arguments of a simple command.
var dangerousArgPatterns = []string{";", "&", "`", "$(", ">>", "<<"}

// ValidateModelID checks a model identifier against the model-ID grammar
// (alphanumeric plus ._:/-).
func ValidateModelID(modelID string) bool {
	return modelID != "" && modelIDPattern.MatchString(modelID)
}

// ValidateCommand decides whether a configured list_models_cmd is safe to
// execute without a shell. Any rejection is final: callers must refuse to
// execute the command and surface the failure; there is no sanitization.
func ValidateCommand(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" {
		return false
	}

	lowered := strings.ToLower(command)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return false
		}
	}

	for _, path := range dangerousPaths {
		if strings.Contains(command, path) {
			return false
		}
	}

	// Composite commands that survived the denylists are trusted.
	for _, construct := range safeConstructs {
		if strings.Contains(command, construct) {
			return true
		}
	}

	tokens, err := shellwords.Parse(command)
	if err != nil {
		// Unbalanced quoting; treat as malicious.
		return false
	}
	if len(tokens) == 0 {
		return false
	}

	// A bare space-separated model list is a supported pseudo-command,
	// unless its first token happens to name a destructive binary.
	if !destructiveExecutables[tokens[0]] && allModelIDs(tokens) {
		return true
	}

	if !validExecutable(tokens[0]) {
		return false
	}

	for _, arg := range tokens[1:] {
		if !validArgument(arg) {
			return false
		}
	}

	return true
}

func allModelIDs(tokens []string) bool {
	for _, tok := range tokens {
		if !ValidateModelID(tok) {
			return false
		}
	}
	return true
}

func validExecutable(executable string) bool {
	if strings.HasPrefix(executable, "/") {
		// Absolute paths are not allowed.
		return false
	}
	if destructiveExecutables[executable] {
		return false
	}
	if strings.Contains(executable, "/") {
		// Relative paths stay inside the working tree; allowed.
		return true
	}
	return safeExecutables[executable]
}

func validArgument(arg string) bool {
	for _, pattern := range dangerousArgPatterns {
		if strings.Contains(arg, pattern) {
			return false
		}
	}
	for _, path := range dangerousPaths {
		if strings.Contains(arg, path) {
			return false
		}
	}
	return true
}
