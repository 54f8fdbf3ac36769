package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-emoji-insights/internal/ranking"
)

// AllTimeUsageQueryParams holds query parameters for GET /emojis/all-time
type AllTimeUsageQueryParams struct {
	Timezone string `form:"tz"`
}

// MemberUsageQueryParams holds query parameters for GET /members/:name/emojis
type MemberUsageQueryParams struct {
	Timezone string `form:"tz"`
	TopN     int    `form:"n,default=5"`
}

// ParseAllTimeUsageQuery parses query parameters for GET /emojis/all-time
func ParseAllTimeUsageQuery(c *gin.Context) (*AllTimeUsageQueryParams, error) {
	var params AllTimeUsageQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// ParseMemberUsageQuery parses query parameters for GET /members/:name/emojis
func ParseMemberUsageQuery(c *gin.Context) (*MemberUsageQueryParams, error) {
	var params MemberUsageQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// Validate checks the requested top N is in range
func (p *MemberUsageQueryParams) Validate() error {
	return ranking.ValidateTopN(p.TopN)
}
