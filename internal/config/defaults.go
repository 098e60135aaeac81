package config

const (
	defaultSiteDir         = "site"
	defaultSnapshotsDir    = "snapshots"
	defaultRepoDir         = "."
	defaultLookbackDays    = 7
	defaultMaxSitemapItems = 100
	defaultRequestTimeout  = 30
	defaultUserAgent       = "newscast/1.0"
	defaultModelsURL       = "https://api.anthropic.com/v1/models"

	defaultClaudeModel          = "claude-sonnet-4-5"
	defaultSummarizeMaxTokens   = 4096
	defaultSummarizeTemperature = 0.3
	defaultScriptMaxTokens      = 8192
	defaultScriptTemperature    = 0.7

	defaultChunkByteLimit = 4800
	defaultPauseMS        = 400
	defaultBitrateBPS     = 128000
	defaultFFmpegBinary   = "ffmpeg"

	defaultPodcastTitle       = "AI Industry Weekly"
	defaultPodcastDescription = "Weekly AI news from Anthropic, OpenAI, and Google — auto-generated podcast."
	defaultPodcastLanguage    = "en-us"
	defaultPodcastCategory    = "Technology"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults, including the
// stock source list. Sources declared in a config file replace the defaults
// wholesale.
func Default() Config {
	return Config{
		Paths: Paths{
			SiteDir:      defaultSiteDir,
			SnapshotsDir: defaultSnapshotsDir,
			RepoDir:      defaultRepoDir,
		},
		Ingest: Ingest{
			LookbackDays:          defaultLookbackDays,
			MaxSitemapItems:       defaultMaxSitemapItems,
			RequestTimeoutSeconds: defaultRequestTimeout,
			UserAgent:             defaultUserAgent,
			ModelsURL:             defaultModelsURL,
		},
		Claude: Claude{
			Model:                defaultClaudeModel,
			SummarizeMaxTokens:   defaultSummarizeMaxTokens,
			SummarizeTemperature: defaultSummarizeTemperature,
			ScriptMaxTokens:      defaultScriptMaxTokens,
			ScriptTemperature:    defaultScriptTemperature,
		},
		TTS: TTS{
			ChunkByteLimit: defaultChunkByteLimit,
			Interviewer: Voice{
				LanguageCode: "en-US",
				Name:         "en-US-Journey-F",
				SSMLGender:   "FEMALE",
			},
			Expert: Voice{
				LanguageCode: "en-US",
				Name:         "en-US-Journey-D",
				SSMLGender:   "MALE",
			},
		},
		Audio: Audio{
			FFmpegBinary: defaultFFmpegBinary,
			PauseMS:      defaultPauseMS,
			BitrateBPS:   defaultBitrateBPS,
		},
		Podcast: Podcast{
			Title:       defaultPodcastTitle,
			Description: defaultPodcastDescription,
			Language:    defaultPodcastLanguage,
			Category:    defaultPodcastCategory,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Sources: defaultSources(),
	}
}

func defaultSources() []Source {
	return []Source{
		{Name: "anthropic_blog", Provider: "anthropic", URL: "https://raw.githubusercontent.com/taobojlen/anthropic-rss-feed/main/anthropic_news_rss.xml", Method: "rss", Enabled: true},
		{Name: "anthropic_engineering", Provider: "anthropic", URL: "https://raw.githubusercontent.com/taobojlen/anthropic-rss-feed/main/anthropic_engineering_rss.xml", Method: "rss", Enabled: true},
		{Name: "anthropic_release_notes", Provider: "anthropic", URL: "https://platform.claude.com/docs/en/release-notes/overview", Method: "scrape", CSSSelector: "article", Enabled: true},
		{Name: "claude_code_releases", Provider: "anthropic", URL: "https://github.com/anthropics/claude-code/releases.atom", Method: "atom", Enabled: true},
		{Name: "anthropic_python_sdk", Provider: "anthropic", URL: "https://github.com/anthropics/anthropic-sdk-python/releases.atom", Method: "atom", Enabled: true},
		{Name: "anthropic_models", Provider: "anthropic", URL: "https://api.anthropic.com/v1/models", Method: "api", Enabled: true},
		{Name: "anthropic_sitemap", Provider: "anthropic", URL: "https://platform.claude.com/sitemap.xml", Method: "sitemap", Enabled: true},
		{Name: "openai_blog", Provider: "openai", URL: "https://openai.com/blog/rss.xml", Method: "rss", Enabled: true},
		{Name: "openai_changelog", Provider: "openai", URL: "https://developers.openai.com/changelog/rss.xml", Method: "rss", Enabled: true},
		{Name: "openai_community", Provider: "openai", URL: "https://community.openai.com/c/announcements/6.rss", Method: "rss", Enabled: true},
		{Name: "openai_release_sitemap", Provider: "openai", URL: "https://openai.com/sitemap.xml/release/", Method: "sitemap", Enabled: true},
		{Name: "openai_python_sdk", Provider: "openai", URL: "https://github.com/openai/openai-python/releases.atom", Method: "atom", Enabled: true},
		{Name: "openai_status", Provider: "openai", URL: "https://status.openai.com/feed.rss", Method: "rss", Enabled: true},
		{Name: "google_ai_blog", Provider: "gemini", URL: "https://blog.google/technology/ai/rss/", Method: "rss", Enabled: true},
		{Name: "google_developers_blog", Provider: "gemini", URL: "https://developers.googleblog.com/feeds/posts/default", Method: "rss", Enabled: true},
		{Name: "gemini_api_changelog", Provider: "gemini", URL: "https://ai.google.dev/gemini-api/docs/changelog", Method: "scrape", CSSSelector: "article", Enabled: true},
		{Name: "vertex_ai_release_notes", Provider: "gemini", URL: "https://docs.cloud.google.com/feeds/generative-ai-on-vertex-ai-release-notes.xml", Method: "atom", Enabled: true},
		{Name: "gemini_sitemap", Provider: "gemini", URL: "https://ai.google.dev/sitemap.xml", Method: "sitemap", Enabled: true},
	}
}

// Providers returns the provider groups content is organized under.
func Providers() []string {
	return []string{"anthropic", "openai", "gemini"}
}
