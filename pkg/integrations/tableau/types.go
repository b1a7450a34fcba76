package tableau

import "encoding/xml"

// Tableau responses carry xmlns="http://tableau.com/api". encoding/xml
// matches local names when a tag has no namespace, so the structs below
// omit it.

type signInRequest struct {
	XMLName     xml.Name `xml:"tsRequest"`
	Credentials struct {
		Name     string `xml:"name,attr"`
		Password string `xml:"password,attr"`
		Site     struct {
			ContentURL string `xml:"contentUrl,attr"`
		} `xml:"site"`
	} `xml:"credentials"`
}

type signInResponse struct {
	Credentials struct {
		Token string `xml:"token,attr"`
		Site  struct {
			ID string `xml:"id,attr"`
		} `xml:"site"`
	} `xml:"credentials"`
}

type pagination struct {
	PageNumber     int `xml:"pageNumber,attr"`
	PageSize       int `xml:"pageSize,attr"`
	TotalAvailable int `xml:"totalAvailable,attr"`
}

type datasourcesResponse struct {
	Pagination  pagination   `xml:"pagination"`
	Datasources []Datasource `xml:"datasources>datasource"`
}

// Datasource is a published data source as listed by the REST API.
type Datasource struct {
	ID          string  `xml:"id,attr"`
	Name        string  `xml:"name,attr"`
	ContentURL  string  `xml:"contentUrl,attr"`
	Description string  `xml:"description,attr"`
	WebpageURL  string  `xml:"webpageUrl,attr"`
	CreatedAt   string  `xml:"createdAt,attr"`
	UpdatedAt   string  `xml:"updatedAt,attr"`
	HasExtracts bool    `xml:"hasExtracts,attr"`
	Project     Project `xml:"project"`
	Owner       struct {
		ID string `xml:"id,attr"`
	} `xml:"owner"`
}

// Project is the project a data source is published in.
type Project struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// User is a site user.
type User struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"name,attr"`
	SiteRole string `xml:"siteRole,attr"`
}

type userResponse struct {
	User User `xml:"user"`
}

// Connection is a database connection of a data source.
type Connection struct {
	ID            string `xml:"id,attr"`
	Type          string `xml:"type,attr"`
	ServerAddress string `xml:"serverAddress,attr"`
	Username      string `xml:"userName,attr"`
}

type connectionsResponse struct {
	Connections []Connection `xml:"connections>connection"`
}

type tasksResponse struct {
	Tasks *struct {
		Tasks []struct {
			ExtractRefresh *struct {
				ID       string `xml:"id,attr"`
				Type     string `xml:"type,attr"`
				Schedule *struct {
					ID        string `xml:"id,attr"`
					Frequency string `xml:"frequency,attr"`
					State     string `xml:"state,attr"`
					NextRunAt string `xml:"nextRunAt,attr"`
				} `xml:"schedule"`
				Datasource *target `xml:"datasource"`
				Workbook   *target `xml:"workbook"`
			} `xml:"extractRefresh"`
		} `xml:"task"`
	} `xml:"tasks"`
}

type target struct {
	ID string `xml:"id,attr"`
}

// Task is a flattened extract refresh task.
type Task struct {
	ID         string
	Type       string
	ScheduleID string
	Frequency  string
	State      string
	NextRunAt  string
	TargetType string
	TargetID   string
}

// Task types and targets.
const (
	TaskRefreshExtract   = "RefreshExtractTask"
	TargetTypeDatasource = "datasource"
	TargetTypeWorkbook   = "workbook"
)
