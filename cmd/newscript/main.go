// Command newscript writes a Lua behaviour skeleton to assets/scripts.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const scriptsDir = "assets/scripts"

const tmpl = `-- {{.Name}}
-- props: speed

local speed = self.props.speed or 1

function on_init()
end

function on_update(dt)
	-- self.translate(0, 0, -speed * dt)
end

function on_destroy()
end
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run ./cmd/newscript <ScriptName>\n")
		fmt.Fprintf(os.Stderr, "Example: go run ./cmd/newscript EnemyChaser\n")
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		fmt.Fprintf(os.Stderr, "Error: script name must start with an uppercase letter\n")
		os.Exit(1)
	}

	filename := toSnakeCase(name) + ".lua"
	outPath := filepath.Join(scriptsDir, filename)

	if _, err := os.Stat(outPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", outPath)
		os.Exit(1)
	}

	content := strings.ReplaceAll(tmpl, "{{.Name}}", name)

	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n", outPath)
	fmt.Printf("Attach it to an entity in a scene file:\n\n")
	fmt.Printf("  - type: LuaScript\n")
	fmt.Printf("    props:\n")
	fmt.Printf("      path: %s\n", outPath)
	fmt.Printf("      props: { speed: 1.0 }\n")
}

func toSnakeCase(s string) string {
	var result []rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}
