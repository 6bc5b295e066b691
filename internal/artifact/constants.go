package artifact

// File and directory name constants used throughout skillset.
// Centralizing these prevents typos and makes refactoring easier.
const (
	// SkillFilename is the standard filename for skill definitions
	SkillFilename = "SKILL.md"

	// AgentExt is the extension of agent definition files
	AgentExt = ".md"

	// SkillsDirName is the standard directory name for skills, both in the
	// source repository and under the local .claude directory
	SkillsDirName = "skills"

	// AgentsDirName is the standard directory name for agents
	AgentsDirName = "agents"

	// ClaudeDirName is the per-project assistant configuration directory
	ClaudeDirName = ".claude"
)
