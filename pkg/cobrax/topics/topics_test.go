package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func TestTopicManager_ScanTopics(t *testing.T) {
	fsys := fstest.MapFS{
		"dry-run.txt":     file("Information about dry-run mode"),
		"architecture.md": file("# Architecture\n\nSystem architecture details"),
		"config.txxt":     file("Configuration Guide"),
		"ignore.json":     file("This should be ignored"),
	}

	t.Run("default_extensions", func(t *testing.T) {
		tm := New(fsys)
		require.NoError(t, tm.scanTopics())

		assert.Equal(t, []string{"architecture", "dry-run"}, tm.ListTopics())
		topic, ok := tm.GetTopic("architecture")
		require.True(t, ok)
		assert.Equal(t, "# Architecture\n\nSystem architecture details", topic.Content)
		assert.Equal(t, "architecture.md", topic.FilePath)
	})

	t.Run("custom_extensions", func(t *testing.T) {
		tm := NewWithOptions(fsys, Options{Extensions: []string{".txt", ".md", ".txxt"}})
		require.NoError(t, tm.scanTopics())

		topic, ok := tm.GetTopic("config")
		require.True(t, ok)
		assert.Equal(t, "Configuration Guide", topic.Content)
		_, ok = tm.GetTopic("ignore")
		assert.False(t, ok)
	})
}

func TestTopicManager_GetTopic(t *testing.T) {
	tm := New(fstest.MapFS{
		"option-dry-run.txt": file("Dry run help"),
		"option-verbose.txt": file("Verbose help"),
		"architecture.txt":   file("Architecture help"),
	})
	require.NoError(t, tm.scanTopics())

	tests := []struct {
		input    string
		expected string
		exists   bool
	}{
		{"architecture", "architecture", true},
		{"option-dry-run", "option-dry-run", true},
		{"dry-run", "option-dry-run", true},
		{"--dry-run", "option-dry-run", true},
		{"-dry-run", "option-dry-run", true},
		{"--verbose", "option-verbose", true},
		{"-v", "", false},
		{"nonexistent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, exists := tm.GetTopic(tt.input)
			assert.Equal(t, tt.exists, exists)
			if exists {
				assert.Equal(t, tt.expected, topic.Name)
			}
		})
	}
}

func TestNilAndEmptyFS(t *testing.T) {
	for name, fsys := range map[string]fstest.MapFS{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			tm := New(fsys)
			require.NoError(t, tm.scanTopics())
			assert.Empty(t, tm.ListTopics())
		})
	}
}

func TestSubdirectoryTopics(t *testing.T) {
	tm := New(fstest.MapFS{"advanced/plugins.txt": file("Plugin help")})
	require.NoError(t, tm.scanTopics())

	topic, ok := tm.GetTopic("plugins")
	require.True(t, ok)
	assert.Equal(t, "Plugin help", topic.Content)
}

func newRoot(t *testing.T, fsys fstest.MapFS) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	rootCmd := &cobra.Command{Use: "testapp", Short: "Test application"}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Migrate something",
		Run:   func(cmd *cobra.Command, args []string) {},
	})
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	_, err := Initialize(rootCmd, fsys)
	require.NoError(t, err)
	return rootCmd, out
}

func TestInitialize(t *testing.T) {
	rootCmd, _ := newRoot(t, fstest.MapFS{"test-topic.txt": file("Test topic content")})

	helpCmd, _, err := rootCmd.Find([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, "help [command or topic]", helpCmd.Use)

	completions, directive := helpCmd.ValidArgsFunction(helpCmd, nil, "")
	assert.Contains(t, completions, "topics")
	assert.Contains(t, completions, "migrate")
	assert.Contains(t, completions, "test-topic")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}

func TestHelpCommandOutput(t *testing.T) {
	fsys := fstest.MapFS{
		"dry-run.txt":       file("DRY RUN MODE\nThis is a test of dry run help."),
		"option-format.txt": file("Output formats"),
	}

	t.Run("topic", func(t *testing.T) {
		rootCmd, out := newRoot(t, fsys)
		rootCmd.SetArgs([]string{"help", "dry-run"})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), "DRY RUN MODE")
	})

	t.Run("topic_list", func(t *testing.T) {
		rootCmd, out := newRoot(t, fsys)
		rootCmd.SetArgs([]string{"help", "topics"})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), "General topics:\n  dry-run")
		assert.Contains(t, out.String(), "Option topics:\n  --format")
		assert.Contains(t, out.String(), "Use 'testapp help <topic>'")
	})

	t.Run("command_falls_back", func(t *testing.T) {
		rootCmd, out := newRoot(t, fsys)
		rootCmd.SetArgs([]string{"help", "migrate"})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), "Migrate something")
	})
}
