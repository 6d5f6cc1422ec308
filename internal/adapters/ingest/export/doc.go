// Package export reads issue tracker XML exports into a typed tree
//
// Shape (Rails to_xml style, element names are dasherized):
//
//	<issues>
//	  <issue>
//	    <id type="integer">42</id>
//	    <activity-groups>
//	      <activity-group>
//	        <created-at type="datetime">2010-05-10T14:33:21-04:00</created-at>
//	        <activities>
//	          <activity>
//	            <attribute-name>Status</attribute-name>
//	            <new-value>In Progress</new-value>
//	          </activity>
//	          <activity>
//	            <attribute-name nil="true"/>
//	            <new-value>ignored</new-value>
//	          </activity>
//
// The wrapper elements (issues, activity-groups, activities) are optional; bare
// children are accepted too. The whole document is decoded in memory
package export
