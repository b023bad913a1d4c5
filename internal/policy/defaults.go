package policy

// DefaultPolicyFile is the file name `officekit policy init` writes.
const DefaultPolicyFile = "default.rego"

// DefaultPolicy is the starter guardrail set.
const DefaultPolicy = `# officekit default guardrails
# Rules see either input.breakdown (before code generation) or input.deploy
# (before a function app is deployed). Deny blocks; warn is advisory.
# Learn more: https://www.openpolicyagent.org/docs/latest/policy-language/

package officekit.policy

import rego.v1

# ---------------------------------------------------------------------------
# Breakdown
# ---------------------------------------------------------------------------

deny contains msg if {
    input.breakdown.complexity > 95
    msg := sprintf("request complexity %d is above 95; split it into smaller requests", [input.breakdown.complexity])
}

warn contains msg if {
    input.breakdown.host == "Outlook"
    msg := "Outlook add-ins run with mailbox permissions; review the manifest before shipping"
}

warn contains msg if {
    count(input.breakdown.tasks) > 12
    msg := sprintf("%d sub-tasks is a lot for one generation; consider splitting", [count(input.breakdown.tasks)])
}

# ---------------------------------------------------------------------------
# Deploy
# ---------------------------------------------------------------------------

is_secret_file(f) if startswith(f, ".env")

is_secret_file(f) if contains(f, "/.env")

is_secret_file(f) if endswith(f, "local.settings.json")

deny contains msg if {
    some f in input.deploy.files
    is_secret_file(f)
    msg := sprintf("package contains secret file '%s'; add it to .funcignore", [f])
}

warn contains msg if {
    input.deploy.environment == "prod"
    msg := sprintf("deploying %s to prod", [input.deploy.appName])
}
`
