package template

import (
	"testing"

	"github.com/modu-ai/devkit/internal/config"
	"github.com/modu-ai/devkit/pkg/version"
)

func TestWorkflowCommand(t *testing.T) {
	t.Parallel()

	goRun := "go run github.com/modu-ai/devkit/cmd/devkit@" + version.GetVersion()

	tests := []struct {
		name  string
		goMod string
		want  string
	}{
		{
			name:  "tool directive",
			goMod: "module example.com/app\n\ngo 1.25\n\ntool github.com/modu-ai/devkit/cmd/devkit\n",
			want:  config.DefaultCommand,
		},
		{
			name:  "tool block",
			goMod: "module example.com/app\n\ngo 1.25\n\ntool (\n\tgolang.org/x/tools/cmd/stringer\n\tgithub.com/modu-ai/devkit/cmd/devkit\n)\n",
			want:  config.DefaultCommand,
		},
		{
			name:  "other tools only",
			goMod: "module example.com/app\n\ngo 1.25\n\ntool golang.org/x/tools/cmd/stringer\n",
			want:  goRun,
		},
		{
			name:  "no tool directive",
			goMod: "module example.com/app\n\ngo 1.25\n",
			want:  goRun,
		},
		{
			name:  "no go.mod",
			goMod: "",
			want:  goRun,
		},
		{
			name:  "unparsable go.mod",
			goMod: "module\n",
			want:  goRun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := WorkflowCommand([]byte(tt.goMod)); got != tt.want {
				t.Errorf("WorkflowCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}
