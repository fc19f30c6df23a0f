// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_entity

import "time"

// Prospect is a read model over the dashboard's prospects table. The call
// orchestrator only reads prospects; all CRUD lives with the dashboard.
type Prospect struct {
	Id          uint64    `json:"id" gorm:"type:bigint;primaryKey;<-:create"`
	ProspectID  string    `json:"prospectId" gorm:"column:prospect_id;type:varchar(36);not null;uniqueIndex"`
	FirstName   string    `json:"firstName" gorm:"column:first_name;type:varchar(100);not null;default:''"`
	LastName    string    `json:"lastName" gorm:"column:last_name;type:varchar(100);not null;default:''"`
	Company     string    `json:"company" gorm:"column:company;type:varchar(200);not null;default:''"`
	PhoneNumber string    `json:"phoneNumber" gorm:"column:phone_number;type:varchar(50);not null"`
	Status      string    `json:"status" gorm:"column:status;type:varchar(50);not null;default:'new'"`
	CreatedDate time.Time `json:"createdDate" gorm:"type:timestamp;not null;default:NOW();<-:create"`
	UpdatedDate time.Time `json:"updatedDate" gorm:"type:timestamp;default:null"`
}

func (Prospect) TableName() string {
	return "prospects"
}

// FullName returns the prospect's display name for call personalization.
func (p *Prospect) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
