package home

// PageTitle is the title of the single application page.
const PageTitle = "Hybrid NL-to-SQL Engine"
