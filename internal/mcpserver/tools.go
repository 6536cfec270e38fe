package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names form the stable command surface shared by both transports.
const (
	toolConfigureCredential     = "configure-credential"
	toolStartEnrichment         = "start-enrichment"
	toolStartEnrichmentAndWait  = "start-enrichment-and-wait"
	toolGetEnrichmentResult     = "get-enrichment-result"
	toolGetCompany              = "get-company"
	toolGetCompanyHierarchy     = "get-company-hierarchy"
	toolStartLookalike          = "start-lookalike"
	toolGetLookalikeStatus      = "get-lookalike-status"
	toolContactSearch           = "contact-search"
	toolGetContactSearchStatus  = "get-contact-search-status"
	toolContactEnrich           = "contact-enrich"
	toolGetContactEnrichStatus  = "get-contact-enrich-status"
	toolGetContact              = "get-contact"
	toolListLists               = "list-lists"
	toolCreateList              = "create-list"
	toolGetListItems            = "get-list-items"
	toolRemoveListItem          = "remove-list-item"
	toolDeleteList              = "delete-list"
	toolGetCreditsBalance       = "get-credits-balance"
	toolHealthCheck             = "health-check"
)

var stringItems = map[string]any{"type": "string"}

// registerTools declares the whole catalog. The catalog is registered once
// on the shared MCP server; the transports never register tools themselves.
func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool(toolConfigureCredential,
		mcp.WithDescription("Configure the DataMerge API key for this session, replacing any active client"),
		mcp.WithString("api_key",
			mcp.Required(),
			mcp.Description("DataMerge API key"),
		),
		mcp.WithString("base_url",
			mcp.Description("Override the DataMerge API base URL (advanced)"),
		),
	), s.handleConfigureCredential)

	s.mcp.AddTool(mcp.NewTool(toolStartEnrichment,
		mcp.WithDescription("Start an asynchronous company enrichment job and return its job id immediately"),
		mcp.WithString("domain", mcp.Description("Company website domain, e.g. example.com")),
		mcp.WithString("company_name", mcp.Description("Company name to enrich")),
		mcp.WithArray("domains", mcp.Description("Multiple domains to enrich in one job"), mcp.Items(stringItems)),
	), s.handleStartEnrichment)

	s.mcp.AddTool(mcp.NewTool(toolStartEnrichmentAndWait,
		mcp.WithDescription("Start a company enrichment job and poll until it completes, fails, or the timeout elapses"),
		mcp.WithString("domain", mcp.Description("Company website domain, e.g. example.com")),
		mcp.WithString("company_name", mcp.Description("Company name to enrich")),
		mcp.WithArray("domains", mcp.Description("Multiple domains to enrich in one job"), mcp.Items(stringItems)),
		mcp.WithNumber("poll_interval_seconds", mcp.Description("Seconds between status polls (default 5)")),
		mcp.WithNumber("timeout_seconds", mcp.Description("Overall wait budget in seconds (default 60)")),
	), s.handleStartEnrichmentAndWait)

	s.mcp.AddTool(mcp.NewTool(toolGetEnrichmentResult,
		mcp.WithDescription("Fetch the current status and results of an enrichment job"),
		mcp.WithString("job_id", mcp.Required(), mcp.Description("Job id returned by start-enrichment")),
	), s.handleGetEnrichmentResult)

	s.mcp.AddTool(mcp.NewTool(toolGetCompany,
		mcp.WithDescription("Look up a single company record by DataMerge id or record id"),
		mcp.WithString("datamerge_id", mcp.Description("DataMerge company identifier")),
		mcp.WithString("record_id", mcp.Description("Upstream record identifier")),
	), s.handleGetCompany)

	s.mcp.AddTool(mcp.NewTool(toolGetCompanyHierarchy,
		mcp.WithDescription("Fetch a company's corporate family tree (parents and children)"),
		mcp.WithString("datamerge_id", mcp.Required(), mcp.Description("DataMerge company identifier")),
		mcp.WithNumber("depth", mcp.Description("Maximum tree depth to traverse")),
	), s.handleGetCompanyHierarchy)

	s.mcp.AddTool(mcp.NewTool(toolStartLookalike,
		mcp.WithDescription("Start an asynchronous lookalike company search job"),
		mcp.WithString("domain", mcp.Description("Seed company domain")),
		mcp.WithString("company_name", mcp.Description("Seed company name")),
		mcp.WithString("country", mcp.Description("Restrict results to a country code")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of lookalike companies")),
	), s.handleStartLookalike)

	s.mcp.AddTool(mcp.NewTool(toolGetLookalikeStatus,
		mcp.WithDescription("Fetch the current status and results of a lookalike search job"),
		mcp.WithString("job_id", mcp.Required(), mcp.Description("Job id returned by start-lookalike")),
	), s.handleGetLookalikeStatus)

	s.mcp.AddTool(mcp.NewTool(toolContactSearch,
		mcp.WithDescription("Start an asynchronous contact search job scoped to a company"),
		mcp.WithString("company_domain", mcp.Description("Company website domain to search within")),
		mcp.WithString("datamerge_id", mcp.Description("DataMerge company identifier to search within")),
		mcp.WithArray("titles", mcp.Description("Job titles to match"), mcp.Items(stringItems)),
		mcp.WithString("seniority", mcp.Description("Seniority filter, e.g. director, vp, c_suite")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of contacts")),
	), s.handleContactSearch)

	s.mcp.AddTool(mcp.NewTool(toolGetContactSearchStatus,
		mcp.WithDescription("Fetch the current status and results of a contact search job"),
		mcp.WithString("job_id", mcp.Required(), mcp.Description("Job id returned by contact-search")),
	), s.handleGetContactSearchStatus)

	s.mcp.AddTool(mcp.NewTool(toolContactEnrich,
		mcp.WithDescription("Start an asynchronous contact enrichment job"),
		mcp.WithString("email", mcp.Description("Contact email address")),
		mcp.WithString("full_name", mcp.Description("Contact full name")),
		mcp.WithString("company_domain", mcp.Description("Company domain the contact belongs to")),
		mcp.WithString("record_id", mcp.Description("Known upstream contact record id")),
	), s.handleContactEnrich)

	s.mcp.AddTool(mcp.NewTool(toolGetContactEnrichStatus,
		mcp.WithDescription("Fetch the current status and results of a contact enrichment job"),
		mcp.WithString("job_id", mcp.Required(), mcp.Description("Job id returned by contact-enrich")),
	), s.handleGetContactEnrichStatus)

	s.mcp.AddTool(mcp.NewTool(toolGetContact,
		mcp.WithDescription("Look up a single contact record by record id"),
		mcp.WithString("record_id", mcp.Required(), mcp.Description("Upstream contact record identifier")),
	), s.handleGetContact)

	s.mcp.AddTool(mcp.NewTool(toolListLists,
		mcp.WithDescription("List the account's saved record lists"),
	), s.handleListLists)

	s.mcp.AddTool(mcp.NewTool(toolCreateList,
		mcp.WithDescription("Create a named record list"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name for the new list")),
	), s.handleCreateList)

	s.mcp.AddTool(mcp.NewTool(toolGetListItems,
		mcp.WithDescription("Fetch the records stored in a list"),
		mcp.WithString("list_id", mcp.Required(), mcp.Description("List identifier")),
	), s.handleGetListItems)

	s.mcp.AddTool(mcp.NewTool(toolRemoveListItem,
		mcp.WithDescription("Remove one record from a list"),
		mcp.WithString("list_id", mcp.Required(), mcp.Description("List identifier")),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("Identifier of the record to remove")),
	), s.handleRemoveListItem)

	s.mcp.AddTool(mcp.NewTool(toolDeleteList,
		mcp.WithDescription("Delete an entire list"),
		mcp.WithString("list_id", mcp.Required(), mcp.Description("List identifier")),
	), s.handleDeleteList)

	s.mcp.AddTool(mcp.NewTool(toolGetCreditsBalance,
		mcp.WithDescription("Fetch the account's remaining DataMerge API credits"),
	), s.handleGetCreditsBalance)

	s.mcp.AddTool(mcp.NewTool(toolHealthCheck,
		mcp.WithDescription("Probe the DataMerge API with the session's credential"),
	), s.handleHealthCheck)
}
