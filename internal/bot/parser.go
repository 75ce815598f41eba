package bot

import (
	"strings"
	"unicode"
)

// Command: разобранная команда.
type Command struct {
	Name    string   // Имя в нижнем регистре, без префикса и @бота
	Args    []string // Аргументы через пробел
	Prefix  string   // "/", "!" или "."
	Mention string   // Имя бота из /cmd@Bot, если было
}

// IsSlash сообщает, пришла ли команда в стандартной форме Telegram.
func (c Command) IsSlash() bool {
	return c.Prefix == "/"
}

// CommandParser разбирает команды с префиксами /, ! и .
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"/", "!", "."},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
// "/add_expense@FinBot 500" → {Name: "add_expense", Args: ["500"], Mention: "FinBot"}.
func (p *CommandParser) ParseCommand(text string) (Command, bool) {
	text = strings.TrimSpace(text)

	var cmd Command
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			cmd.Prefix = prefix
			text = strings.TrimPrefix(text, prefix)
			break
		}
	}
	if cmd.Prefix == "" {
		return Command{}, false
	}

	// "/ 500" или просто "/": не команда
	if text == "" || unicode.IsSpace(rune(text[0])) {
		return Command{}, false
	}
	parts := strings.Fields(text)

	name, mention, _ := strings.Cut(parts[0], "@")
	if name == "" {
		return Command{}, false
	}
	cmd.Name = strings.ToLower(name)
	cmd.Mention = mention
	if len(parts) > 1 {
		cmd.Args = parts[1:]
	}
	return cmd, true
}
